// Package main hosts the medialib CLI entrypoint and command graph.
//
// Commands translate terminal invocations into IPC calls against the daemon.
// Queue and owner commands fall back to opening the queue database directly
// when no daemon is listening, so requests can be staged before the daemon
// starts.
package main
