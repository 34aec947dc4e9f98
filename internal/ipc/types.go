package ipc

import "medialib/internal/api"

// StartRequest triggers daemon workflow startup.
type StartRequest struct{}

// StartResponse indicates whether the daemon was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops daemon workflow.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// QueueItem mirrors the HTTP API queue DTO for internal IPC callers.
type QueueItem = api.QueueItem

// OwnerItem mirrors the HTTP API owner DTO.
type OwnerItem = api.OwnerItem

// StatusResponse represents combined daemon/workflow status information.
type StatusResponse = api.DaemonStatus

// EnqueueRequest adds a download request.
type EnqueueRequest = api.EnqueueRequest

// EnqueueResponse returns the stored request.
type EnqueueResponse struct {
	Item QueueItem `json:"item"`
}

// QueueListRequest filters queue listing by owner and status.
type QueueListRequest struct {
	Owner    string   `json:"owner"`
	Statuses []string `json:"statuses"`
}

// QueueListResponse contains queue entries.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueDescribeRequest fetches a single queue item by id.
type QueueDescribeRequest struct {
	ID int64 `json:"id"`
}

// QueueDescribeResponse contains a single queue entry. Found is false for
// unknown ids.
type QueueDescribeResponse struct {
	Found bool      `json:"found"`
	Item  QueueItem `json:"item"`
}

// QueueRequeueRequest enqueues fresh copies of finished requests.
type QueueRequeueRequest struct {
	IDs []int64 `json:"ids"`
}

// QueueRequeueResponse reports the outcome per requested id.
type QueueRequeueResponse = api.RequeueItemsResult

// QueueClearRequest removes finished requests. Empty statuses clears both
// done and failed rows.
type QueueClearRequest struct {
	Statuses []string `json:"statuses"`
}

// QueueClearResponse reports number of removed entries.
type QueueClearResponse struct {
	Removed int64 `json:"removed"`
}

// QueueHealthRequest fetches aggregate queue counts.
type QueueHealthRequest struct{}

// QueueHealthResponse reports queue counts by status.
type QueueHealthResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
	Failed     int `json:"failed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string   `json:"db_path"`
	DatabaseExists   bool     `json:"database_exists"`
	DatabaseReadable bool     `json:"database_readable"`
	SchemaVersion    int      `json:"schema_version"`
	TablesPresent    []string `json:"tables_present"`
	MissingTables    []string `json:"missing_tables"`
	IntegrityCheck   bool     `json:"integrity_check"`
	TotalRequests    int      `json:"total_requests"`
	TotalOwners      int      `json:"total_owners"`
	Error            string   `json:"error"`
}

// OwnerSetRequest registers an owner. A blank directory derives one under
// the library directory.
type OwnerSetRequest struct {
	Name      string `json:"name"`
	Directory string `json:"directory"`
}

// OwnerSetResponse returns the stored owner.
type OwnerSetResponse struct {
	Owner OwnerItem `json:"owner"`
}

// OwnerListRequest lists registered owners.
type OwnerListRequest struct{}

// OwnerListResponse contains registered owners.
type OwnerListResponse struct {
	Owners []OwnerItem `json:"owners"`
}

// OwnerRemoveRequest deletes an owner mapping.
type OwnerRemoveRequest struct {
	Name string `json:"name"`
}

// OwnerRemoveResponse reports whether a mapping existed.
type OwnerRemoveResponse struct {
	Removed bool `json:"removed"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test result.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
