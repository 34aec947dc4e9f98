package workflow

import (
	"context"

	"medialib/internal/fetch"
	"medialib/internal/logging"
	"medialib/internal/queue"
)

// StatusSummary represents lightweight dispatcher diagnostics.
type StatusSummary struct {
	Running     bool
	LastError   string
	LastRequest *queue.Request
	LastCycle   CycleReport
	Cycles      int64
	QueueStats  map[queue.Status]int
	FetchHealth *fetch.Health
}

// Status returns the latest dispatcher information.
func (d *Dispatcher) Status(ctx context.Context) StatusSummary {
	d.mu.RLock()
	summary := StatusSummary{
		Running:   d.running,
		LastCycle: d.lastCycle,
		Cycles:    d.cycles,
	}
	if d.lastErr != nil {
		summary.LastError = d.lastErr.Error()
	}
	if d.lastRequest != nil {
		copy := *d.lastRequest
		summary.LastRequest = &copy
	}
	d.mu.RUnlock()

	stats, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Warn("failed to read queue stats", logging.Error(err))
	}
	summary.QueueStats = stats

	if checker, ok := d.fetcher.(fetch.HealthChecker); ok {
		health := checker.HealthCheck(ctx)
		summary.FetchHealth = &health
	}
	return summary
}
