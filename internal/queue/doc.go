// Package queue persists download requests and owner directories in SQLite.
//
// The Store manages the database connection, schema initialization, and the
// access contract the dispatcher relies on: Enqueue, ListPending (oldest id
// first), SetStatus, the compare-and-set Transition, and ResolveDestination.
// Request status follows a closed four-state machine
// (pending, in_progress, done, failed) that only moves forward; re-running a
// finished request means enqueueing a new row.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package queue
