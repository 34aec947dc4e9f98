package api_test

import (
	"context"
	"testing"

	"medialib/internal/api"
	"medialib/internal/queue"
)

type stubActionService struct {
	items    map[int64]*api.QueueItem
	requeued []int64
	nextID   int64
}

func (s *stubActionService) Describe(_ context.Context, id int64) (*api.QueueItem, error) {
	return s.items[id], nil
}

func (s *stubActionService) Requeue(_ context.Context, id int64) (*api.QueueItem, error) {
	s.requeued = append(s.requeued, id)
	s.nextID++
	return &api.QueueItem{ID: s.nextID, Status: string(queue.StatusPending)}, nil
}

func TestRequeueItemsByID(t *testing.T) {
	svc := &stubActionService{
		nextID: 100,
		items: map[int64]*api.QueueItem{
			1: {ID: 1, Status: "failed"},
			2: {ID: 2, Status: "in_progress"},
			3: {ID: 3, Status: "done"},
		},
	}

	result, err := api.RequeueItemsByID(context.Background(), svc, []int64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("RequeueItemsByID returned error: %v", err)
	}
	if result.CreatedCount != 2 {
		t.Fatalf("expected two requeued, got %d", result.CreatedCount)
	}
	want := []api.RequeueOutcome{api.RequeueCreated, api.RequeueNotTerminal, api.RequeueCreated, api.RequeueNotFound}
	for i, outcome := range want {
		if result.Items[i].Outcome != outcome {
			t.Fatalf("item %d outcome = %s, want %s", i, result.Items[i].Outcome, outcome)
		}
	}
	if result.Items[0].NewID != 101 || result.Items[2].NewID != 102 {
		t.Fatalf("unexpected new ids %#v", result.Items)
	}
	if len(svc.requeued) != 2 {
		t.Fatalf("expected requeue only for terminal rows, got %v", svc.requeued)
	}
}
