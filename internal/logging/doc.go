// Package logging assembles structured slog loggers and formatting helpers used
// across medialib.
//
// It owns the console and JSON handlers, the stdout/file fan-out the daemon
// uses, and context helpers that tag log lines with request IDs, owners, and
// correlation IDs. NewNop gives tests and optional wiring a logger that cannot
// fail.
package logging
