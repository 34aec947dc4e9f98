package workflow

import (
	"context"
	"errors"
	"time"

	"medialib/internal/logging"
)

// Start launches the background poll loop. The loop runs until ctx is
// cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.New("dispatcher already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done
	d.running = true
	d.mu.Unlock()

	d.logger.Info("dispatcher started",
		logging.Duration("poll_interval", d.pollInterval),
		logging.Int("max_concurrent", d.maxConcurrent),
	)
	go d.loop(runCtx, done)
	return nil
}

// Stop ends the poll loop and returns once the loop has exited. In-flight
// workers are neither cancelled nor awaited.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	cancel := d.cancel
	done := d.done
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	<-done
}

// Done returns a channel closed when the loop exits. It is nil before Start.
func (d *Dispatcher) Done() <-chan struct{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.done
}

func (d *Dispatcher) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		close(done)
		d.logger.Info("dispatcher stopped")
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		wait := d.pollInterval
		if _, err := d.runCycleSafely(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.ErrorWithContext(d.logger, "poll cycle abandoned", "cycle_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check queue database access"),
				logging.Duration("retry_in", d.retryInterval),
			)
			wait = d.retryInterval
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-d.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// runCycleSafely keeps a panic in cycle bookkeeping from ending the loop.
func (d *Dispatcher) runCycleSafely(ctx context.Context) (report CycleReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("poll cycle panicked")
			d.logger.Error("poll cycle panicked", logging.Any("panic", r), logging.Alert("cycle_panic"))
		}
	}()
	return d.RunCycle(ctx)
}
