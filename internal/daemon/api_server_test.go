package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medialib/internal/api"
	"medialib/internal/config"
	"medialib/internal/fetch"
	"medialib/internal/logging"
	"medialib/internal/queue"
	"medialib/internal/testsupport"
	"medialib/internal/workflow"
)

func newTestServer(t *testing.T, opts ...testsupport.ConfigOption) (*config.Config, *queue.Store, http.Handler) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	fetcher := fetch.FetcherFunc(func(context.Context, fetch.Job) (fetch.Result, error) {
		return fetch.Result{}, nil
	})
	dispatcher := workflow.NewDispatcher(cfg, store, store, fetcher, logging.NewNop())
	d, err := New(cfg, store, logging.NewNop(), dispatcher)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	srv, err := newAPIServer(cfg, d, logging.NewNop())
	if err != nil {
		t.Fatalf("newAPIServer: %v", err)
	}
	return cfg, store, srv.server.Handler
}

func serve(t *testing.T, handler http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestEnqueueThenDescribe(t *testing.T) {
	_, _, handler := newTestServer(t)

	rec := serve(t, handler, http.MethodPost, "/api/queue", `{"owner":"alice","source":"https://example.com/watch?v=abc"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[api.EnqueueResponse](t, rec)
	if created.Item.ID == 0 || created.Item.Status != string(queue.StatusPending) {
		t.Fatalf("unexpected created item: %+v", created.Item)
	}
	if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "/api/queue/1") {
		t.Fatalf("unexpected location header %q", loc)
	}

	rec = serve(t, handler, http.MethodGet, "/api/queue/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	item := decode[api.QueueItemResponse](t, rec)
	if item.Item.Owner != "alice" || item.Item.Source != "https://example.com/watch?v=abc" {
		t.Fatalf("unexpected item: %+v", item.Item)
	}
}

func TestEnqueueRejectsBadInput(t *testing.T) {
	_, store, handler := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "missing owner", body: `{"source":"https://example.com/a"}`},
		{name: "blank source", body: `{"owner":"alice","source":"  "}`},
		{name: "malformed", body: `{"owner":`},
		{name: "unknown field", body: `{"owner":"alice","source":"x","priority":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, handler, http.MethodPost, "/api/queue", tc.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if msg := decode[api.ErrorResponse](t, rec); msg.Error == "" {
				t.Fatal("expected error message")
			}
		})
	}

	rows, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows stored, got %d", len(rows))
	}
}

func TestQueueListFilters(t *testing.T) {
	_, store, handler := newTestServer(t)
	testsupport.MustEnqueue(t, store, "alice", "https://example.com/1")
	second := testsupport.MustEnqueue(t, store, "bob", "https://example.com/2")
	testsupport.MustEnqueue(t, store, "alice", "https://example.com/3")
	if ok, err := store.Transition(context.Background(), second.ID, queue.StatusPending, queue.StatusInProgress, ""); err != nil || !ok {
		t.Fatalf("claim: ok=%v err=%v", ok, err)
	}

	rec := serve(t, handler, http.MethodGet, "/api/queue?owner=alice", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[api.QueueListResponse](t, rec); len(got.Items) != 2 {
		t.Fatalf("expected 2 alice items, got %d", len(got.Items))
	}

	rec = serve(t, handler, http.MethodGet, "/api/queue?status=in_progress", "", nil)
	got := decode[api.QueueListResponse](t, rec)
	if len(got.Items) != 1 || got.Items[0].ID != second.ID {
		t.Fatalf("expected only in-progress item, got %+v", got.Items)
	}

	rec = serve(t, handler, http.MethodGet, "/api/queue?status=bogus", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}

	rec = serve(t, handler, http.MethodGet, "/api/queue?owner=nobody", "", nil)
	if got := decode[api.QueueListResponse](t, rec); got.Items == nil || len(got.Items) != 0 {
		t.Fatalf("expected empty list, got %+v", got.Items)
	}
}

func TestQueueItemErrors(t *testing.T) {
	_, _, handler := newTestServer(t)

	if rec := serve(t, handler, http.MethodGet, "/api/queue/42", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(t, handler, http.MethodGet, "/api/queue/abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := serve(t, handler, http.MethodDelete, "/api/queue/1", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestAPIRequiresBearerToken(t *testing.T) {
	_, _, handler := newTestServer(t, testsupport.WithAPIToken("s3cret"))

	rec := serve(t, handler, http.MethodGet, "/api/queue", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	rec = serve(t, handler, http.MethodGet, "/api/queue", "", map[string]string{"Authorization": "Bearer wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}
	rec = serve(t, handler, http.MethodGet, "/api/queue", "", map[string]string{"Authorization": "Bearer s3cret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, store, handler := newTestServer(t)
	testsupport.MustEnqueue(t, store, "alice", "https://example.com/1")

	rec := serve(t, handler, http.MethodGet, "/api/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	status := decode[api.DaemonStatus](t, rec)
	if status.Running {
		t.Fatal("expected daemon not running before Start")
	}
	if status.QueueDBPath != store.Path() {
		t.Fatalf("expected db path %q, got %q", store.Path(), status.QueueDBPath)
	}
	if status.Workflow.QueueStats["pending"] != 1 {
		t.Fatalf("expected 1 pending, got %v", status.Workflow.QueueStats)
	}
	if len(status.Dependencies) == 0 {
		t.Fatal("expected dependency report")
	}
}

func TestOwnersEndpoint(t *testing.T) {
	cfg, store, handler := newTestServer(t)
	testsupport.MustRegisterOwner(t, store, cfg, "alice")

	rec := serve(t, handler, http.MethodGet, "/api/owners", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[api.OwnerListResponse](t, rec)
	if len(got.Owners) != 1 || got.Owners[0].Name != "alice" {
		t.Fatalf("unexpected owners: %+v", got.Owners)
	}
}
