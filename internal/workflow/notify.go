package workflow

import (
	"context"
	"errors"

	"medialib/internal/fetch"
	"medialib/internal/logging"
	"medialib/internal/notifications"
	"medialib/internal/queue"
)

func (d *Dispatcher) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			d.logger.Debug("notification cancelled", logging.String("event", string(event)))
			return
		}
		d.logger.Debug("notification failed", logging.String("event", string(event)), logging.Error(err))
	}
}

func (d *Dispatcher) notifyRequestCompleted(ctx context.Context, req *queue.Request, result fetch.Result) {
	d.publish(ctx, notifications.EventRequestCompleted, notifications.Payload{
		"request_id": req.ID,
		"owner":      req.Owner,
		"source":     req.Source,
		"files":      len(result.Files),
	})
}

func (d *Dispatcher) notifyRequestFailed(ctx context.Context, req *queue.Request) {
	d.publish(ctx, notifications.EventRequestFailed, notifications.Payload{
		"request_id": req.ID,
		"owner":      req.Owner,
		"source":     req.Source,
		"error":      req.ErrorMessage,
	})
}

func (d *Dispatcher) notifyQueueStarted(ctx context.Context, count int) {
	d.publish(ctx, notifications.EventQueueStarted, notifications.Payload{"count": count})
}

func (d *Dispatcher) notifyQueueCompleted(ctx context.Context, report CycleReport) {
	d.publish(ctx, notifications.EventQueueCompleted, notifications.Payload{
		"done":     report.Done,
		"failed":   report.Failed + report.Unresolved,
		"duration": report.Duration,
	})
}
