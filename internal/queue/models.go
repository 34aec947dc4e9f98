package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a download request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// DaemonStopReason is recorded on requests that were in progress when a
// previous daemon process exited.
const DaemonStopReason = "daemon stopped before the request finished"

var allStatuses = []Status{
	StatusPending,
	StatusInProgress,
	StatusDone,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// forwardTransitions lists every edge of the request state machine.
var forwardTransitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusFailed},
	StatusInProgress: {StatusDone, StatusFailed},
}

// ParseStatus converts a string into a Status if recognized. Legacy labels
// written by earlier tooling ("queued", "downloading", "downloaded", "error")
// are accepted as aliases.
func ParseStatus(value string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "queued":
		return StatusPending, true
	case "downloading", "in-progress", "inprogress":
		return StatusInProgress, true
	case "downloaded", "completed":
		return StatusDone, true
	case "error":
		return StatusFailed, true
	}
	status := Status(normalized)
	if _, ok := statusSet[status]; ok {
		return status, true
	}
	return "", false
}

// AllStatuses returns a copy of all known statuses in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsTerminal reports whether no further transition leaves the status.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// CanTransition reports whether from -> to is a forward edge of the state machine.
func CanTransition(from, to Status) bool {
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Request is one queued download-and-transcode unit of work.
type Request struct {
	ID           int64
	Owner        string
	Source       string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// Duration returns how long the request has been (or was) in progress.
func (r *Request) Duration(now time.Time) time.Duration {
	if r == nil || r.StartedAt == nil {
		return 0
	}
	end := now
	if r.FinishedAt != nil {
		end = *r.FinishedAt
	}
	if end.Before(*r.StartedAt) {
		return 0
	}
	return end.Sub(*r.StartedAt)
}

// Owner maps a user identity to the directory their downloads land in.
type Owner struct {
	Name      string
	Directory string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HealthSummary captures aggregate queue counts.
type HealthSummary struct {
	Total      int
	Pending    int
	InProgress int
	Done       int
	Failed     int
}

// DatabaseHealth describes the state of the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    int
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TotalRequests    int
	TotalOwners      int
	Error            string
}
