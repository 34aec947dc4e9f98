package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes a download request in a transport-friendly format.
type QueueItem struct {
	ID              int64   `json:"id"`
	Owner           string  `json:"owner"`
	Source          string  `json:"source"`
	Status          string  `json:"status"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	UpdatedAt       string  `json:"updatedAt,omitempty"`
	StartedAt       string  `json:"startedAt,omitempty"`
	FinishedAt      string  `json:"finishedAt,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// EnqueueRequest is the body accepted when adding a request.
type EnqueueRequest struct {
	Owner  string `json:"owner"`
	Source string `json:"source"`
}

// EnqueueResponse returns the stored row for a newly added request.
type EnqueueResponse struct {
	Item QueueItem `json:"item"`
}

// QueueListResponse wraps a collection of queue items for API responses.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueItemResponse wraps a single queue item.
type QueueItemResponse struct {
	Item QueueItem `json:"item"`
}

// QueueStatsResponse provides a normalized queue stats payload.
type QueueStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// OwnerItem describes an owner to destination mapping.
type OwnerItem struct {
	Name      string `json:"name"`
	Directory string `json:"directory"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// OwnerListResponse wraps registered owners.
type OwnerListResponse struct {
	Owners []OwnerItem `json:"owners"`
}

// CycleSummary mirrors the dispatcher's most recent cycle report.
type CycleSummary struct {
	StartedAt       string  `json:"startedAt,omitempty"`
	DurationSeconds float64 `json:"durationSeconds"`
	Pending         int     `json:"pending"`
	Dispatched      int     `json:"dispatched"`
	Done            int     `json:"done"`
	Failed          int     `json:"failed"`
	Unresolved      int     `json:"unresolved"`
	Deferred        int     `json:"deferred"`
}

// FetchHealth mirrors readiness reporting for the fetch tool.
type FetchHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// WorkflowStatus summarizes dispatcher execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *QueueItem     `json:"lastItem,omitempty"`
	LastCycle   *CycleSummary  `json:"lastCycle,omitempty"`
	Cycles      int64          `json:"cycles"`
	FetchHealth *FetchHealth   `json:"fetchHealth,omitempty"`
}

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	QueueDBPath  string             `json:"queueDbPath"`
	LockFilePath string             `json:"lockFilePath"`
	SocketPath   string             `json:"socketPath"`
	APIBind      string             `json:"apiBind,omitempty"`
	LogPath      string             `json:"logPath,omitempty"`
	Workflow     WorkflowStatus     `json:"workflow"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// ErrorResponse is the body of every non-2xx HTTP API reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
