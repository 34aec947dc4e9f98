package api

import (
	"context"
	"strings"

	"medialib/internal/queue"
)

// QueueStore abstracts queue persistence interactions needed for API requests.
type QueueStore interface {
	Enqueue(ctx context.Context, owner, source string) (*queue.Request, error)
	List(ctx context.Context, statuses ...queue.Status) ([]*queue.Request, error)
	ListByOwner(ctx context.Context, owner string, statuses ...queue.Status) ([]*queue.Request, error)
	Stats(ctx context.Context) (map[queue.Status]int, error)
	GetByID(ctx context.Context, id int64) (*queue.Request, error)
}

// QueueService exposes queue operations returning API DTOs.
type QueueService struct {
	store QueueStore
}

// NewQueueService constructs a QueueService around the provided store.
func NewQueueService(store QueueStore) *QueueService {
	if store == nil {
		return nil
	}
	return &QueueService{store: store}
}

// Enqueue adds a pending request.
func (s *QueueService) Enqueue(ctx context.Context, req EnqueueRequest) (QueueItem, error) {
	if s == nil || s.store == nil {
		return QueueItem{}, nil
	}
	row, err := s.store.Enqueue(ctx, req.Owner, req.Source)
	if err != nil {
		return QueueItem{}, err
	}
	return FromQueueRequest(row), nil
}

// List returns queue items filtered by status, and by owner when owner is not blank.
func (s *QueueService) List(ctx context.Context, owner string, statuses ...queue.Status) ([]QueueItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	var (
		rows []*queue.Request
		err  error
	)
	if owner = strings.TrimSpace(owner); owner != "" {
		rows, err = s.store.ListByOwner(ctx, owner, statuses...)
	} else {
		rows, err = s.store.List(ctx, statuses...)
	}
	if err != nil {
		return nil, err
	}
	return FromQueueRequests(rows), nil
}

// Stats returns queue summary counts keyed by status string.
func (s *QueueService) Stats(ctx context.Context) (map[string]int, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return MergeQueueStats(stats), nil
}

// Describe fetches a single queue item. It returns nil, nil for unknown ids.
func (s *QueueService) Describe(ctx context.Context, id int64) (*QueueItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	row, err := s.store.GetByID(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	dto := FromQueueRequest(row)
	return &dto, nil
}
