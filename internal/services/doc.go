// Package services defines shared utilities consumed by the dispatcher, the
// fetcher, and the daemon surfaces.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, owners, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap and Details helpers that keep
//     failure classification and operator hints consistent.
package services
