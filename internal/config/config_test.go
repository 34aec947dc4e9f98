package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"medialib/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MEDIALIB_API_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "medialib")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LibraryDir != filepath.Join(tempHome, "music") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.QueueDBPath() != filepath.Join(wantData, "queue.db") {
		t.Fatalf("unexpected queue db path: %q", cfg.QueueDBPath())
	}
	if cfg.PollInterval() != 10*time.Second {
		t.Fatalf("expected 10s poll interval, got %s", cfg.PollInterval())
	}
	if cfg.Fetch.AudioFormat != "mp3" || cfg.Fetch.AudioQuality != "192" {
		t.Fatalf("unexpected audio defaults: %q %q", cfg.Fetch.AudioFormat, cfg.Fetch.AudioQuality)
	}
	if !cfg.Fetch.WriteThumbnail || cfg.Fetch.ThumbnailFormat != "jpg" {
		t.Fatalf("expected jpg thumbnails by default, got %v %q", cfg.Fetch.WriteThumbnail, cfg.Fetch.ThumbnailFormat)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.LibraryDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "medialib.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Workflow struct {
			QueuePollInterval    int `toml:"queue_poll_interval"`
			MaxConcurrentFetches int `toml:"max_concurrent_fetches"`
		} `toml:"workflow"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Workflow.QueuePollInterval = 3
	custom.Workflow.MaxConcurrentFetches = 0
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Workflow.QueuePollInterval != 3 {
		t.Fatalf("unexpected poll interval: %d", cfg.Workflow.QueuePollInterval)
	}
	if cfg.Workflow.MaxConcurrentFetches != 0 {
		t.Fatalf("expected unbounded fan-out, got %d", cfg.Workflow.MaxConcurrentFetches)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercase json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadUsesEnvironmentFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIALIB_API_TOKEN", " secret ")
	t.Setenv("MEDIALIB_NTFY_TOPIC", "https://ntfy.example/medialib")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "secret" {
		t.Fatalf("expected token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.example/medialib" {
		t.Fatalf("expected topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"poll interval", func(c *config.Config) { c.Workflow.QueuePollInterval = 0 }, "queue_poll_interval"},
		{"retry interval", func(c *config.Config) { c.Workflow.ErrorRetryInterval = -1 }, "error_retry_interval"},
		{"concurrency", func(c *config.Config) { c.Workflow.MaxConcurrentFetches = -2 }, "max_concurrent_fetches"},
		{"audio format", func(c *config.Config) { c.Fetch.AudioFormat = "midi" }, "audio_format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"queue min items", func(c *config.Config) { c.Notifications.QueueMinItems = 0 }, "queue_min_items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Workflow.MaxConcurrentFetches != 4 {
		t.Fatalf("unexpected sample concurrency: %d", cfg.Workflow.MaxConcurrentFetches)
	}
}
