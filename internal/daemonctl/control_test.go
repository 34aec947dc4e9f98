package daemonctl_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"medialib/internal/daemonctl"
	"medialib/internal/testsupport"
)

func TestBuildStatusSnapshotOffline(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.MustEnqueue(t, store, "alice", "https://example.com/a")
	testsupport.MustEnqueue(t, store, "bob", "https://example.com/b")

	snapshot, err := daemonctl.BuildStatusSnapshot(context.Background(), cfg.SocketPath(), cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if snapshot.Running {
		t.Fatal("expected offline snapshot")
	}
	if snapshot.Workflow.QueueStats["pending"] != 2 || snapshot.Workflow.QueueStats["failed"] != 0 {
		t.Fatalf("unexpected queue stats %v", snapshot.Workflow.QueueStats)
	}
	if snapshot.QueueDBPath != cfg.QueueDBPath() {
		t.Fatalf("unexpected db path %q", snapshot.QueueDBPath)
	}
	if len(snapshot.Dependencies) == 0 {
		t.Fatal("expected dependency statuses")
	}
	for _, dep := range snapshot.Dependencies {
		if dep.Name == "yt-dlp" && !dep.Available {
			t.Fatalf("expected stubbed yt-dlp to be available: %+v", dep)
		}
	}
}

func TestStopAndTerminateWhenNotRunning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	_, err := daemonctl.StopAndTerminate(cfg.SocketPath(), cfg, 100*time.Millisecond)
	if !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
		t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
	}
}

func TestProcessInfoWithoutSocket(t *testing.T) {
	running, pid, err := daemonctl.ProcessInfo(filepath.Join(t.TempDir(), "missing.sock"))
	if err != nil || running || pid != 0 {
		t.Fatalf("expected not running, got running=%v pid=%d err=%v", running, pid, err)
	}
}

func TestForceKillProcessRefusesSelf(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "medialib.pid")
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := daemonctl.ForceKillProcess(pidPath, "", 0); err == nil {
		t.Fatal("expected refusal to kill the current process")
	}
	if _, err := daemonctl.ForceKillProcess(filepath.Join(t.TempDir(), "none.pid"), "", 0); err == nil {
		t.Fatal("expected error when pid is unknown")
	}
}

func TestWaitForShutdownWithoutSocket(t *testing.T) {
	if err := daemonctl.WaitForShutdown(filepath.Join(t.TempDir(), "gone.sock"), time.Second); err != nil {
		t.Fatalf("expected immediate success, got %v", err)
	}
}
