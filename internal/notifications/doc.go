// Package notifications delivers dispatcher events to ntfy.
//
// Enumerated events cover request completion and failure plus cycle-level
// summaries. The service degrades to a no-op when no topic is configured, so
// workflow code publishes unconditionally and depends only on the Service
// interface.
package notifications
