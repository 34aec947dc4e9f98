package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"medialib/internal/config"
	"medialib/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustEnqueue adds a pending request and fails the test on error.
func MustEnqueue(t testing.TB, store *queue.Store, owner, source string) *queue.Request {
	t.Helper()

	req, err := store.Enqueue(context.Background(), owner, source)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return req
}

// MustRegisterOwner maps owner to a directory under the config library root
// and returns that directory.
func MustRegisterOwner(t testing.TB, store *queue.Store, cfg *config.Config, owner string) string {
	t.Helper()

	dir := filepath.Join(cfg.Paths.LibraryDir, owner)
	if _, err := store.UpsertOwner(context.Background(), owner, dir); err != nil {
		t.Fatalf("store.UpsertOwner: %v", err)
	}
	return dir
}

// MustGet reloads a request and fails the test when it is missing.
func MustGet(t testing.TB, store *queue.Store, id int64) *queue.Request {
	t.Helper()

	req, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("store.GetByID(%d): %v", id, err)
	}
	if req == nil {
		t.Fatalf("request %d not found", id)
	}
	return req
}
