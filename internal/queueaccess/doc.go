// Package queueaccess gives CLI commands one queue and owner API whether the
// daemon is reachable over IPC or the database must be opened directly.
package queueaccess
