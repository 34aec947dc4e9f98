package workflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"medialib/internal/config"
	"medialib/internal/fetch"
	"medialib/internal/logging"
	"medialib/internal/notifications"
	"medialib/internal/queue"
	"medialib/internal/testsupport"
	"medialib/internal/workflow"
)

type stubNotifier struct {
	mu     sync.Mutex
	events []notifications.Event
}

func (s *stubNotifier) Publish(_ context.Context, event notifications.Event, _ notifications.Payload) error {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

func (s *stubNotifier) count(event notifications.Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e == event {
			n++
		}
	}
	return n
}

type harness struct {
	cfg        *config.Config
	store      *queue.Store
	notifier   *stubNotifier
	dispatcher *workflow.Dispatcher
}

func newHarness(t *testing.T, fetcher fetch.Fetcher, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &stubNotifier{}
	d := workflow.NewDispatcher(cfg, store, store, fetcher, logging.NewNop(), workflow.WithNotifier(notifier))
	return &harness{cfg: cfg, store: store, notifier: notifier, dispatcher: d}
}

// countingFetcher records how many times each request id was fetched.
type countingFetcher struct {
	mu    sync.Mutex
	calls map[int64]int
	fn    func(context.Context, fetch.Job) (fetch.Result, error)
}

func newCountingFetcher(fn func(context.Context, fetch.Job) (fetch.Result, error)) *countingFetcher {
	return &countingFetcher{calls: make(map[int64]int), fn: fn}
}

func (c *countingFetcher) Fetch(ctx context.Context, job fetch.Job) (fetch.Result, error) {
	c.mu.Lock()
	c.calls[job.RequestID]++
	c.mu.Unlock()
	if c.fn == nil {
		return fetch.Result{}, nil
	}
	return c.fn(ctx, job)
}

func (c *countingFetcher) callsFor(id int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[id]
}

func (c *countingFetcher) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status, timeout time.Duration) *queue.Request {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		req := testsupport.MustGet(t, store, id)
		if req.Status == want {
			return req
		}
		if time.Now().After(deadline) {
			t.Fatalf("request %d status = %s, want %s after %s", id, req.Status, want, timeout)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
