package queueaccess_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"medialib/internal/api"
	"medialib/internal/ipc"
	"medialib/internal/queue"
	"medialib/internal/queueaccess"
	"medialib/internal/testsupport"
)

func TestOpenWithFallbackUsesStoreWhenDaemonDown(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dial := func() (*ipc.Client, error) { return nil, errors.New("connection refused") }
	open := func() (*queue.Store, error) { return queue.Open(cfg) }

	session, err := queueaccess.OpenWithFallback(cfg, dial, open)
	if err != nil {
		t.Fatalf("OpenWithFallback: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	if !session.Direct {
		t.Fatal("expected direct store session")
	}

	ctx := context.Background()
	owner, err := session.Access.SetOwner(ctx, "alice", "")
	if err != nil {
		t.Fatalf("SetOwner: %v", err)
	}
	if owner.Directory != filepath.Join(cfg.Paths.LibraryDir, "alice") {
		t.Fatalf("unexpected owner directory %q", owner.Directory)
	}

	item, err := session.Access.Enqueue(ctx, "alice", "https://example.com/a")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if item.Status != string(queue.StatusPending) {
		t.Fatalf("expected pending, got %s", item.Status)
	}

	items, err := session.Access.List(ctx, "alice", []string{"queued"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("unexpected list %+v", items)
	}
	if _, err := session.Access.List(ctx, "", []string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown status filter")
	}

	stats, err := session.Access.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["pending"] != 1 || stats["done"] != 0 {
		t.Fatalf("unexpected stats %v", stats)
	}

	result, err := session.Access.Requeue(ctx, []int64{item.ID})
	if err != nil {
		t.Fatalf("Requeue: %v", err)
	}
	if result.CreatedCount != 0 || result.Items[0].Outcome != api.RequeueNotTerminal {
		t.Fatalf("expected pending request to be rejected, got %+v", result)
	}

	removed, err := session.Access.RemoveOwner(ctx, "alice")
	if err != nil || !removed {
		t.Fatalf("RemoveOwner: removed=%v err=%v", removed, err)
	}
}

func TestOpenWithFallbackWithoutStoreOpener(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dial := func() (*ipc.Client, error) { return nil, errors.New("down") }
	if _, err := queueaccess.OpenWithFallback(cfg, dial, nil); err == nil {
		t.Fatal("expected error without store opener")
	}
}
