package fetch

import (
	"context"
	"strings"

	"medialib/internal/services"
)

// Job describes a single fetch: what to retrieve and where to put it.
type Job struct {
	RequestID   int64
	Owner       string
	Source      string
	Destination string
}

// Result lists the files a fetch created or replaced in the destination.
type Result struct {
	Files []string
}

// Fetcher retrieves the media at job.Source into job.Destination.
type Fetcher interface {
	Fetch(ctx context.Context, job Job) (Result, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, job Job) (Result, error)

// Fetch calls f(ctx, job).
func (f FetcherFunc) Fetch(ctx context.Context, job Job) (Result, error) {
	return f(ctx, job)
}

func validateJob(job Job) error {
	if strings.TrimSpace(job.Source) == "" {
		return services.Wrap(services.ErrValidation, "fetch", "validate job", "source is empty", nil)
	}
	if strings.TrimSpace(job.Destination) == "" {
		return services.Wrap(services.ErrValidation, "fetch", "validate job", "destination is empty", nil)
	}
	return nil
}
