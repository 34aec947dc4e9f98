package queue

import "errors"

var (
	// ErrDestinationNotFound is returned by ResolveDestination when the owner
	// has no registered directory.
	ErrDestinationNotFound = errors.New("destination not found")
	// ErrRequestNotFound is returned when an operation names an unknown request id.
	ErrRequestNotFound = errors.New("request not found")
	// ErrInvalidTransition rejects status changes outside the forward state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotTerminal rejects requeueing a request that has not finished.
	ErrNotTerminal = errors.New("request has not finished")
	// ErrInvalidRequest rejects enqueues missing an owner or source.
	ErrInvalidRequest = errors.New("invalid request")
)
