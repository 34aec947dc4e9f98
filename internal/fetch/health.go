package fetch

import (
	"context"
	"strings"

	"medialib/internal/deps"
)

// Health summarizes whether a fetcher can currently run.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}

// HealthChecker is implemented by fetchers that can report readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) Health
}

// HealthCheck reports whether yt-dlp and ffmpeg resolve.
func (y *YTDLP) HealthCheck(context.Context) Health {
	const name = "yt-dlp"
	statuses := deps.CheckBinaries([]deps.Requirement{{
		Name:    name,
		Command: y.cfg.Binary,
	}})
	statuses = append(statuses, deps.CheckFFmpeg(y.cfg.FFmpegPath))
	missing := deps.Missing(statuses)
	if len(missing) == 0 {
		return Healthy(name)
	}
	details := make([]string, 0, len(missing))
	for _, m := range missing {
		details = append(details, m.Detail)
	}
	return Unhealthy(name, strings.Join(details, "; "))
}
