package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"medialib/internal/logging"
	"medialib/internal/queue"
	"medialib/internal/services"
)

// CycleReport summarizes one poll cycle.
type CycleReport struct {
	StartedAt time.Time
	Duration  time.Duration
	// Pending is the number of rows listed at the start of the cycle.
	Pending int
	// Dispatched counts rows this cycle claimed and handed to a worker.
	Dispatched int
	Done       int
	Failed     int
	// Unresolved counts rows failed because the owner had no destination.
	Unresolved int
	// Deferred counts rows left pending after a transient resolve or claim error.
	Deferred int
	// Skipped counts rows another caller moved out of pending first.
	Skipped int
	// Interrupted is set when the caller's context ended before the barrier.
	Interrupted bool
}

type cycleState struct {
	mu     sync.Mutex
	report CycleReport
}

func (c *cycleState) update(fn func(*CycleReport)) {
	c.mu.Lock()
	fn(&c.report)
	c.mu.Unlock()
}

func (c *cycleState) snapshot() CycleReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report
}

// RunCycle performs one poll cycle and returns once every worker it started
// has finished. Concurrent callers are serialized.
//
// A store error while listing abandons the cycle with no side effects. If ctx
// ends first, RunCycle returns ctx.Err() with a partial report; workers that
// already started keep running and record their own outcome.
func (d *Dispatcher) RunCycle(ctx context.Context) (CycleReport, error) {
	d.cycleMu.Lock()

	started := time.Now()
	pending, err := d.store.ListPending(ctx)
	if err != nil {
		d.cycleMu.Unlock()
		wrapped := services.Wrap(services.ErrTransient, "dispatch", "list pending", "queue store unavailable", err)
		d.setLastError(wrapped)
		return CycleReport{StartedAt: started}, wrapped
	}

	state := &cycleState{report: CycleReport{StartedAt: started, Pending: len(pending)}}
	if len(pending) == 0 {
		d.cycleMu.Unlock()
		report := state.snapshot()
		report.Duration = time.Since(started)
		d.recordCycle(report)
		return report, nil
	}

	d.logger.Debug("dispatching pending requests",
		logging.Int("pending", len(pending)),
		logging.Int("max_concurrent", d.maxConcurrent),
	)
	d.notifyQueueStarted(ctx, len(pending))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer d.cycleMu.Unlock()
		d.dispatch(ctx, state, pending)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		report := state.snapshot()
		report.Interrupted = true
		report.Duration = time.Since(started)
		return report, ctx.Err()
	}

	report := state.snapshot()
	report.Duration = time.Since(started)
	d.recordCycle(report)
	if report.Dispatched > 0 || report.Unresolved > 0 {
		d.logger.Info("cycle complete",
			logging.String(logging.FieldEventType, "cycle_complete"),
			logging.Int("pending", report.Pending),
			logging.Int("done", report.Done),
			logging.Int("failed", report.Failed),
			logging.Int("unresolved", report.Unresolved),
			logging.Int("deferred", report.Deferred),
			logging.Duration("elapsed", report.Duration),
		)
		d.notifyQueueCompleted(ctx, report)
	}
	return report, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, state *cycleState, pending []*queue.Request) {
	var group errgroup.Group
	if d.maxConcurrent > 0 {
		group.SetLimit(d.maxConcurrent)
	}
	for _, req := range pending {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			d.process(ctx, state, req)
			return nil
		})
	}
	_ = group.Wait()
}

// process resolves, claims, and runs a single request inside the cycle.
func (d *Dispatcher) process(ctx context.Context, state *cycleState, req *queue.Request) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("request dispatch panicked",
				logging.Int64(logging.FieldRequestID, req.ID),
				logging.Any("panic", r),
				logging.String(logging.FieldEventType, "dispatch_panic"),
			)
		}
	}()
	if ctx.Err() != nil {
		return
	}
	logger := d.logger.With(
		logging.Int64(logging.FieldRequestID, req.ID),
		logging.String(logging.FieldOwner, req.Owner),
	)

	destination, err := d.resolver.ResolveDestination(ctx, req.Owner)
	if err != nil {
		if errors.Is(err, queue.ErrDestinationNotFound) {
			d.failUnresolved(ctx, state, req, err)
			return
		}
		logging.WarnWithContext(logger, "destination lookup failed; request left pending", "resolve_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check queue database access"),
			logging.String(logging.FieldImpact, "request will be retried next cycle"),
		)
		d.setLastError(err)
		state.update(func(r *CycleReport) { r.Deferred++ })
		return
	}

	claimed, err := d.store.Transition(ctx, req.ID, queue.StatusPending, queue.StatusInProgress, "")
	if err != nil {
		logging.WarnWithContext(logger, "claim failed; request left pending", "claim_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check queue database access"),
			logging.String(logging.FieldImpact, "request will be retried next cycle"),
		)
		d.setLastError(err)
		state.update(func(r *CycleReport) { r.Deferred++ })
		return
	}
	if !claimed {
		logger.Debug("request no longer pending; skipped")
		state.update(func(r *CycleReport) { r.Skipped++ })
		return
	}
	state.update(func(r *CycleReport) { r.Dispatched++ })

	outcome := d.runWorker(ctx, req, destination)
	state.update(func(r *CycleReport) {
		if outcome == queue.StatusDone {
			r.Done++
		} else {
			r.Failed++
		}
	})
}

func (d *Dispatcher) failUnresolved(ctx context.Context, state *cycleState, req *queue.Request, cause error) {
	message := fmt.Sprintf("no destination directory registered for owner %q", req.Owner)
	logger := d.logger.With(
		logging.Int64(logging.FieldRequestID, req.ID),
		logging.String(logging.FieldOwner, req.Owner),
	)
	moved, err := d.store.Transition(context.WithoutCancel(ctx), req.ID, queue.StatusPending, queue.StatusFailed, message)
	if err != nil {
		logger.Error("failed to record unresolved owner", logging.Error(err))
		d.setLastError(err)
		state.update(func(r *CycleReport) { r.Deferred++ })
		return
	}
	if !moved {
		state.update(func(r *CycleReport) { r.Skipped++ })
		return
	}

	details := services.Details(services.Wrap(services.ErrNotFound, "resolve", "destination", message, cause))
	logging.ErrorWithContext(logger, "request failed: owner has no destination", "request_unresolved",
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.String(logging.FieldErrorHint, details.Hint),
	)
	state.update(func(r *CycleReport) { r.Unresolved++ })

	failed := *req
	failed.Status = queue.StatusFailed
	failed.ErrorMessage = message
	d.setLastRequest(&failed)
	d.notifyRequestFailed(ctx, &failed)
}
