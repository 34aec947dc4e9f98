// Package daemon owns the long-running medialib process state.
//
// A Daemon holds the single-instance file lock, starts and stops the queue
// dispatcher, and serves the HTTP queue API that external callers use to add
// requests and read their status. The IPC server and the CLI reach queue and
// owner operations through the helper methods here, so every enqueue made
// while the daemon runs also wakes the dispatcher.
package daemon
