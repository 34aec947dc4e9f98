package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"medialib/internal/api"
	"medialib/internal/daemon"
	"medialib/internal/fetch"
	"medialib/internal/ipc"
	"medialib/internal/logging"
	"medialib/internal/testsupport"
	"medialib/internal/workflow"
)

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPollInterval(60))
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	fetcher := fetch.FetcherFunc(func(context.Context, fetch.Job) (fetch.Result, error) {
		return fetch.Result{}, nil
	})
	dispatcher := workflow.NewDispatcher(cfg, store, store, fetcher, logger)
	d, err := daemon.New(cfg, store, logger, dispatcher)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "medialib.sock")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	ownerResp, err := client.OwnerSet("alice", "")
	if err != nil {
		t.Fatalf("OwnerSet RPC failed: %v", err)
	}
	if ownerResp.Owner.Directory != filepath.Join(cfg.Paths.LibraryDir, "alice") {
		t.Fatalf("unexpected owner directory %q", ownerResp.Owner.Directory)
	}

	enqueued, err := client.Enqueue("alice", "https://example.com/watch?v=1")
	if err != nil {
		t.Fatalf("Enqueue RPC failed: %v", err)
	}
	if enqueued.Item.ID == 0 {
		t.Fatal("expected stored id")
	}
	if _, err := client.Enqueue("", "https://example.com/x"); err == nil {
		t.Fatal("expected error for missing owner")
	}

	deadline := time.Now().Add(5 * time.Second)
	var item ipc.QueueItem
	for time.Now().Before(deadline) {
		desc, err := client.QueueDescribe(enqueued.Item.ID)
		if err != nil {
			t.Fatalf("QueueDescribe RPC failed: %v", err)
		}
		item = desc.Item
		if item.Status == "done" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if item.Status != "done" {
		t.Fatalf("expected done, got %s", item.Status)
	}

	missing, err := client.QueueDescribe(4242)
	if err != nil {
		t.Fatalf("QueueDescribe missing RPC failed: %v", err)
	}
	if missing.Found {
		t.Fatal("expected unknown id to be reported as not found")
	}

	list, err := client.QueueList("alice", []string{"done"})
	if err != nil {
		t.Fatalf("QueueList RPC failed: %v", err)
	}
	if len(list.Items) != 1 {
		t.Fatalf("expected 1 done item, got %d", len(list.Items))
	}
	if _, err := client.QueueList("", []string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown status")
	}

	requeue, err := client.QueueRequeue([]int64{enqueued.Item.ID, 999})
	if err != nil {
		t.Fatalf("QueueRequeue RPC failed: %v", err)
	}
	if requeue.CreatedCount != 1 || len(requeue.Items) != 2 {
		t.Fatalf("unexpected requeue result %+v", requeue)
	}
	if requeue.Items[1].Outcome != api.RequeueNotFound {
		t.Fatalf("expected not_found for unknown id, got %s", requeue.Items[1].Outcome)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon running")
	}
	if status.QueueDBPath != store.Path() {
		t.Fatalf("unexpected db path %q", status.QueueDBPath)
	}

	health, err := client.DatabaseHealth()
	if err != nil {
		t.Fatalf("DatabaseHealth RPC failed: %v", err)
	}
	if !health.DatabaseReadable || health.TotalOwners != 1 {
		t.Fatalf("unexpected database health %+v", health)
	}

	notify, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification RPC failed: %v", err)
	}
	if notify.Sent {
		t.Fatal("expected no notification without a topic")
	}

	removed, err := client.OwnerRemove("alice")
	if err != nil || !removed.Removed {
		t.Fatalf("OwnerRemove: removed=%v err=%v", removed, err)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected Stopped=true")
	}
}
