package fetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSnapshotMissingDirectory(t *testing.T) {
	snap, err := snapshot(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("snapshot returned error: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
}

func TestChangedFilesDetectsRewrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	before, err := snapshot(dir)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok := before["subdir"]; ok {
		t.Fatal("directories must not be recorded")
	}
	if got := changedFiles(dir, before, before); len(got) != 0 {
		t.Fatalf("expected no changes, got %v", got)
	}

	if err := os.WriteFile(path, []byte("longer content"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	after, err := snapshot(dir)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got := changedFiles(dir, before, after)
	if len(got) != 1 || got[0] != path {
		t.Fatalf("expected rewritten file reported, got %v", got)
	}
}

func TestStderrTail(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"plain failure\n\n":                    "plain failure",
		"ERROR: first\nWARNING: trailing note": "ERROR: first",
	}
	for input, want := range cases {
		if got := stderrTail(input); got != want {
			t.Fatalf("stderrTail(%q) = %q, want %q", input, got, want)
		}
	}
}
