package api

import (
	"context"
	"errors"

	"medialib/internal/queue"
)

// QueueActionService captures the operations needed to requeue finished requests.
type QueueActionService interface {
	Describe(ctx context.Context, id int64) (*QueueItem, error)
	Requeue(ctx context.Context, id int64) (*QueueItem, error)
}

type RequeueOutcome string

const (
	RequeueCreated     RequeueOutcome = "requeued"
	RequeueNotFound    RequeueOutcome = "not_found"
	RequeueNotTerminal RequeueOutcome = "not_terminal"
)

type RequeueItemResult struct {
	ID      int64          `json:"id"`
	Outcome RequeueOutcome `json:"outcome"`
	NewID   int64          `json:"newId,omitempty"`
	Status  string         `json:"status,omitempty"`
}

type RequeueItemsResult struct {
	CreatedCount int64               `json:"createdCount"`
	Items        []RequeueItemResult `json:"items"`
}

// RequeueItemsByID creates a new pending request for each done or failed id.
// The original rows are left untouched.
func RequeueItemsByID(ctx context.Context, service QueueActionService, ids []int64) (RequeueItemsResult, error) {
	result := RequeueItemsResult{Items: make([]RequeueItemResult, 0, len(ids))}
	for _, id := range ids {
		item, err := service.Describe(ctx, id)
		if err != nil {
			return RequeueItemsResult{}, err
		}
		if item == nil {
			result.Items = append(result.Items, RequeueItemResult{ID: id, Outcome: RequeueNotFound})
			continue
		}
		status, ok := queue.ParseStatus(item.Status)
		if !ok || !status.IsTerminal() {
			result.Items = append(result.Items, RequeueItemResult{ID: id, Outcome: RequeueNotTerminal, Status: item.Status})
			continue
		}
		created, err := service.Requeue(ctx, id)
		if err != nil {
			switch {
			case errors.Is(err, queue.ErrRequestNotFound):
				result.Items = append(result.Items, RequeueItemResult{ID: id, Outcome: RequeueNotFound})
				continue
			case errors.Is(err, queue.ErrNotTerminal):
				result.Items = append(result.Items, RequeueItemResult{ID: id, Outcome: RequeueNotTerminal, Status: item.Status})
				continue
			}
			return RequeueItemsResult{}, err
		}
		result.CreatedCount++
		entry := RequeueItemResult{ID: id, Outcome: RequeueCreated, Status: item.Status}
		if created != nil {
			entry.NewID = created.ID
		}
		result.Items = append(result.Items, entry)
	}
	return result, nil
}
