package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medialib/internal/config"
)

const userAgent = "medialib/0.1.0"

// Event identifies a notification type.
type Event string

const (
	EventRequestCompleted Event = "request_completed"
	EventRequestFailed    Event = "request_failed"
	EventQueueStarted     Event = "queue_started"
	EventQueueCompleted   Event = "queue_completed"
	EventError            Event = "error"
	EventTest             Event = "test"
)

// Payload carries event fields. Keys are event specific.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	minItems := cfg.Notifications.QueueMinItems
	if minItems < 1 {
		minItems = 1
	}

	return &ntfyService{
		endpoint:      topic,
		client:        &http.Client{Timeout: timeout},
		queueEnabled:  cfg.Notifications.Queue,
		errorsEnabled: cfg.Notifications.Errors,
		queueMinItems: minItems,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	queueEnabled  bool
	errorsEnabled bool
	queueMinItems int
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if n == nil || n.client == nil {
		return nil
	}
	msg, ok := n.format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRequestCompleted:
		source := payloadString(payload, "source")
		owner := payloadString(payload, "owner")
		body := fmt.Sprintf("✅ Downloaded for %s: %s", owner, source)
		if files := payloadInt(payload, "files"); files > 0 {
			body = fmt.Sprintf("%s (%d files)", body, files)
		}
		return message{
			title: "medialib - Downloaded",
			body:  body,
			tags:  []string{"medialib", "download", "completed"},
		}, true
	case EventRequestFailed:
		if !n.errorsEnabled {
			return message{}, false
		}
		body := fmt.Sprintf("❌ Download #%d for %s failed: %s",
			payloadInt(payload, "request_id"),
			payloadString(payload, "owner"),
			payloadString(payload, "error"),
		)
		return message{
			title:    "medialib - Download Failed",
			body:     body,
			tags:     []string{"medialib", "download", "failed"},
			priority: "high",
		}, true
	case EventQueueStarted:
		count := payloadInt(payload, "count")
		if !n.queueEnabled || count < n.queueMinItems {
			return message{}, false
		}
		return message{
			title: "medialib - Queue Started",
			body:  fmt.Sprintf("Started %d downloads", count),
			tags:  []string{"medialib", "queue", "started"},
		}, true
	case EventQueueCompleted:
		done := payloadInt(payload, "done")
		failed := payloadInt(payload, "failed")
		if !n.queueEnabled || done+failed < n.queueMinItems {
			return message{}, false
		}
		duration := payloadDuration(payload, "duration").Round(time.Second)
		title := "medialib - Queue Complete"
		body := fmt.Sprintf("Queue complete: %d downloaded in %s", done, duration)
		if failed > 0 {
			title = "medialib - Queue Complete (with errors)"
			body = fmt.Sprintf("Queue complete: %d downloaded, %d failed in %s", done, failed, duration)
		}
		return message{
			title: title,
			body:  body,
			tags:  []string{"medialib", "queue", "completed"},
		}, true
	case EventError:
		if !n.errorsEnabled {
			return message{}, false
		}
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := payloadString(payload, "context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if errText := payloadString(payload, "error"); errText != "" {
			builder.WriteString(errText)
		} else {
			builder.WriteString("unknown")
		}
		return message{
			title:    "medialib - Error",
			body:     builder.String(),
			tags:     []string{"medialib", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "medialib - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"medialib", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func payloadString(p Payload, key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func payloadInt(p Payload, key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func payloadDuration(p Payload, key string) time.Duration {
	if d, ok := p[key].(time.Duration); ok && d > 0 {
		return d
	}
	return 0
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
