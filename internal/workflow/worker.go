package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"medialib/internal/fetch"
	"medialib/internal/logging"
	"medialib/internal/queue"
	"medialib/internal/services"
)

// runWorker fetches one claimed request and records its terminal status. The
// fetch and the status write use a context that ignores cancellation of ctx,
// so daemon shutdown neither aborts the fetch nor loses its outcome.
func (d *Dispatcher) runWorker(ctx context.Context, req *queue.Request, destination string) queue.Status {
	ctx = context.WithoutCancel(ctx)
	ctx = services.WithRequestID(ctx, req.ID)
	ctx = services.WithOwner(ctx, req.Owner)
	ctx = services.WithStage(ctx, "fetch")
	ctx = services.WithCorrelationID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, d.logger).With(logging.String(logging.FieldSource, req.Source))

	running := *req
	running.Status = queue.StatusInProgress
	d.setLastRequest(&running)

	started := time.Now()
	logger.Info("request started",
		logging.String(logging.FieldEventType, "request_start"),
		logging.String("destination", destination),
	)

	result, err := d.safeFetch(ctx, fetch.Job{
		RequestID:   req.ID,
		Owner:       req.Owner,
		Source:      req.Source,
		Destination: destination,
	})
	if err != nil {
		return d.finishFailed(ctx, logger, &running, err)
	}
	return d.finishDone(ctx, logger, &running, result, time.Since(started))
}

func (d *Dispatcher) safeFetch(ctx context.Context, job fetch.Job) (result fetch.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrTransient, "fetch", "worker", fmt.Sprintf("fetch panicked: %v", r), nil)
		}
	}()
	if d.fetcher == nil {
		return fetch.Result{}, services.Wrap(services.ErrConfiguration, "fetch", "worker", "no fetcher configured", nil)
	}
	return d.fetcher.Fetch(ctx, job)
}

func (d *Dispatcher) finishDone(ctx context.Context, logger *slog.Logger, req *queue.Request, result fetch.Result, elapsed time.Duration) queue.Status {
	moved, err := d.store.Transition(ctx, req.ID, queue.StatusInProgress, queue.StatusDone, "")
	if err != nil {
		logger.Error("fetch succeeded but done status could not be recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "status_write_failed"),
			logging.String(logging.FieldErrorHint, "the request stays in_progress until the daemon restarts"),
			logging.Alert("status_write"),
		)
		d.setLastError(err)
		return queue.StatusDone
	}
	if !moved {
		logging.WarnWithContext(logger, "request left in_progress by another writer; done not recorded", "status_conflict",
			logging.String(logging.FieldImpact, "row keeps the status set by the other writer"),
		)
	}

	logger.Info("request done",
		logging.String(logging.FieldEventType, "request_done"),
		logging.Int("files", len(result.Files)),
		logging.Duration("elapsed", elapsed),
	)
	req.Status = queue.StatusDone
	d.setLastRequest(req)
	d.notifyRequestCompleted(ctx, req, result)
	return queue.StatusDone
}

func (d *Dispatcher) finishFailed(ctx context.Context, logger *slog.Logger, req *queue.Request, fetchErr error) queue.Status {
	message := services.FailureMessage(fetchErr)
	details := services.Details(fetchErr)
	logging.ErrorWithContext(logger, "request failed", "request_failed",
		logging.Error(fetchErr),
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.String(logging.FieldErrorHint, details.Hint),
		logging.Alert("request_failure"),
	)
	d.setLastError(fetchErr)

	moved, err := d.store.Transition(ctx, req.ID, queue.StatusInProgress, queue.StatusFailed, message)
	if err != nil {
		logger.Error("failed status could not be recorded",
			logging.Error(err),
			logging.String(logging.FieldEventType, "status_write_failed"),
			logging.String(logging.FieldErrorHint, "the request stays in_progress until the daemon restarts"),
		)
		return queue.StatusFailed
	}
	if !moved {
		logging.WarnWithContext(logger, "request left in_progress by another writer; failure not recorded", "status_conflict",
			logging.String(logging.FieldImpact, "row keeps the status set by the other writer"),
		)
	}

	req.Status = queue.StatusFailed
	req.ErrorMessage = message
	d.setLastRequest(req)
	d.notifyRequestFailed(ctx, req)
	return queue.StatusFailed
}
