package queue_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"medialib/internal/queue"
	"medialib/internal/testsupport"
)

func TestResolveDestination(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.ResolveDestination(ctx, "nobody"); !errors.Is(err, queue.ErrDestinationNotFound) {
		t.Fatalf("expected ErrDestinationNotFound, got %v", err)
	}

	dir := testsupport.MustRegisterOwner(t, store, cfg, "alice")
	got, err := store.ResolveDestination(ctx, "alice")
	if err != nil {
		t.Fatalf("ResolveDestination failed: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %q, got %q", dir, got)
	}
}

func TestUpsertOwnerUpdatesDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.UpsertOwner(ctx, "alice", "/data/alice")
	if err != nil {
		t.Fatalf("UpsertOwner failed: %v", err)
	}
	moved := filepath.Join(cfg.Paths.LibraryDir, "alice-new")
	second, err := store.UpsertOwner(ctx, "alice", moved)
	if err != nil {
		t.Fatalf("UpsertOwner update failed: %v", err)
	}
	if second.Directory != moved {
		t.Fatalf("expected directory to update, got %q", second.Directory)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected created_at preserved, got %v vs %v", second.CreatedAt, first.CreatedAt)
	}

	owners, err := store.ListOwners(ctx)
	if err != nil {
		t.Fatalf("ListOwners failed: %v", err)
	}
	if len(owners) != 1 {
		t.Fatalf("expected one owner, got %d", len(owners))
	}

	if _, err := store.UpsertOwner(ctx, "bob", " "); !errors.Is(err, queue.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty directory, got %v", err)
	}
}

func TestRemoveOwner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustRegisterOwner(t, store, cfg, "alice")
	removed, err := store.RemoveOwner(ctx, "alice")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}
	removed, err = store.RemoveOwner(ctx, "alice")
	if err != nil || removed {
		t.Fatalf("expected second removal to be a no-op, got removed=%v err=%v", removed, err)
	}
	if _, err := store.ResolveDestination(ctx, "alice"); !errors.Is(err, queue.ErrDestinationNotFound) {
		t.Fatalf("expected removed owner to be unresolvable, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.SetSchemaVersionForTest(context.Background(), 99); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	store.Close()

	if _, err := queue.Open(cfg); !errors.Is(err, queue.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
