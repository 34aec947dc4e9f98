// Package api defines wire-format types and converters shared by the IPC and
// HTTP layers. It translates queue models into transport-friendly DTOs so the
// CLI and external callers never depend on internal types.
//
// # Key Types
//
// QueueItem: transport representation of a download request.
//
// EnqueueRequest/EnqueueResponse: the payload an external caller posts to add
// a request and the row it gets back.
//
// WorkflowStatus: dispatcher running state, queue stats, fetch health, and the
// most recent request and cycle.
//
// DaemonStatus: aggregated runtime information including dependencies.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Statuses are exposed as their lowercase
// queue.Status strings. Timestamps use RFC3339 with milliseconds in UTC.
package api
