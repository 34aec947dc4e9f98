// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs. Queue and
// owner payloads reuse the HTTP API types so both transports describe a
// request the same way.
package ipc
