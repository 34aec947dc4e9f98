package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"medialib/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", "download failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"fetch", "yt-dlp", "download failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestDetailsClassification(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{services.Wrap(services.ErrExternalTool, "fetch", "run", "", errors.New("exit 1")), "external_tool"},
		{services.Wrap(services.ErrNotFound, "resolve", "owner", "", nil), "not_found"},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), "timeout"},
		{context.Canceled, "canceled"},
		{errors.New("disk full"), "transient"},
	}
	for _, tt := range tests {
		got := services.Details(tt.err)
		if got.Kind != tt.kind {
			t.Fatalf("Details(%v).Kind = %q, want %q", tt.err, got.Kind, tt.kind)
		}
		if got.Hint == "" {
			t.Fatalf("expected hint for %v", tt.err)
		}
	}
	if details := services.Details(nil); details.Kind != "" {
		t.Fatalf("expected empty details for nil, got %+v", details)
	}
}

func TestFailureMessageTruncates(t *testing.T) {
	long := errors.New(strings.Repeat("x", 2000))
	msg := services.FailureMessage(long)
	if len(msg) != 515 {
		t.Fatalf("expected truncated message, got length %d", len(msg))
	}
	if services.FailureMessage(nil) != "" {
		t.Fatal("expected empty message for nil error")
	}
}
