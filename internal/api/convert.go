package api

import (
	"fmt"
	"strings"
	"time"

	"medialib/internal/deps"
	"medialib/internal/queue"
	"medialib/internal/workflow"
)

// FromQueueRequest converts a queue record to its API representation.
func FromQueueRequest(req *queue.Request) QueueItem {
	if req == nil {
		return QueueItem{}
	}
	dto := QueueItem{
		ID:           req.ID,
		Owner:        req.Owner,
		Source:       req.Source,
		Status:       string(req.Status),
		ErrorMessage: req.ErrorMessage,
		CreatedAt:    FormatTime(req.CreatedAt),
		UpdatedAt:    FormatTime(req.UpdatedAt),
	}
	if req.StartedAt != nil {
		dto.StartedAt = FormatTime(*req.StartedAt)
	}
	if req.FinishedAt != nil {
		dto.FinishedAt = FormatTime(*req.FinishedAt)
	}
	if d := req.Duration(time.Now()); d > 0 {
		dto.DurationSeconds = d.Round(time.Millisecond).Seconds()
	}
	return dto
}

// FromQueueRequests converts a slice of queue records into API DTOs.
func FromQueueRequests(reqs []*queue.Request) []QueueItem {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, FromQueueRequest(req))
	}
	return out
}

// FromOwner converts an owner record.
func FromOwner(owner *queue.Owner) OwnerItem {
	if owner == nil {
		return OwnerItem{}
	}
	return OwnerItem{
		Name:      owner.Name,
		Directory: owner.Directory,
		CreatedAt: FormatTime(owner.CreatedAt),
		UpdatedAt: FormatTime(owner.UpdatedAt),
	}
}

// FromOwners converts owner records.
func FromOwners(owners []*queue.Owner) []OwnerItem {
	out := make([]OwnerItem, 0, len(owners))
	for _, owner := range owners {
		out = append(out, FromOwner(owner))
	}
	return out
}

// FromStatusSummary converts a dispatcher status summary to API payload.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	wf := WorkflowStatus{
		Running:    summary.Running,
		QueueStats: MergeQueueStats(summary.QueueStats),
		LastError:  summary.LastError,
		Cycles:     summary.Cycles,
	}
	if summary.LastRequest != nil {
		last := FromQueueRequest(summary.LastRequest)
		wf.LastItem = &last
	}
	if summary.Cycles > 0 {
		c := summary.LastCycle
		wf.LastCycle = &CycleSummary{
			StartedAt:       FormatTime(c.StartedAt),
			DurationSeconds: c.Duration.Round(time.Millisecond).Seconds(),
			Pending:         c.Pending,
			Dispatched:      c.Dispatched,
			Done:            c.Done,
			Failed:          c.Failed,
			Unresolved:      c.Unresolved,
			Deferred:        c.Deferred,
		}
	}
	if summary.FetchHealth != nil {
		wf.FetchHealth = &FetchHealth{
			Name:   summary.FetchHealth.Name,
			Ready:  summary.FetchHealth.Ready,
			Detail: summary.FetchHealth.Detail,
		}
	}
	return wf
}

// FromDependencyStatuses converts dependency checks.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, DependencyStatus{
			Name:        s.Name,
			Command:     s.Command,
			Description: s.Description,
			Optional:    s.Optional,
			Available:   s.Available,
			Detail:      s.Detail,
		})
	}
	return out
}

// MergeQueueStats produces a string-keyed representation of queue stats with
// every status present.
func MergeQueueStats(stats map[queue.Status]int) map[string]int {
	out := make(map[string]int, len(queue.AllStatuses()))
	for _, status := range queue.AllStatuses() {
		out[string(status)] = 0
	}
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}

// ParseStatusFilters converts user supplied status names (including legacy
// aliases) into queue statuses. Blank entries are ignored and comma separated
// values are split.
func ParseStatusFilters(values []string) ([]queue.Status, error) {
	var out []queue.Status
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status, ok := queue.ParseStatus(part)
			if !ok {
				return nil, fmt.Errorf("unknown status %q", part)
			}
			out = append(out, status)
		}
	}
	return out, nil
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
