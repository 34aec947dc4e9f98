package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"medialib/internal/config"
	"medialib/internal/fetch"
	"medialib/internal/logging"
	"medialib/internal/notifications"
	"medialib/internal/queue"
)

// Store is the subset of the queue store the dispatcher needs.
type Store interface {
	ListPending(ctx context.Context) ([]*queue.Request, error)
	Transition(ctx context.Context, id int64, from, to queue.Status, message string) (bool, error)
	Stats(ctx context.Context) (map[queue.Status]int, error)
}

// DestinationResolver maps an owner to the directory their media is fetched into.
type DestinationResolver interface {
	ResolveDestination(ctx context.Context, owner string) (string, error)
}

// Dispatcher runs poll cycles over the queue and fans pending requests out to workers.
type Dispatcher struct {
	store         Store
	resolver      DestinationResolver
	fetcher       fetch.Fetcher
	notifier      notifications.Service
	logger        *slog.Logger
	pollInterval  time.Duration
	retryInterval time.Duration
	maxConcurrent int

	// cycleMu serializes RunCycle. It is released only after every worker
	// spawned by the cycle has recorded its outcome.
	cycleMu sync.Mutex
	wake    chan struct{}

	mu          sync.RWMutex
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}
	lastErr     error
	lastRequest *queue.Request
	lastCycle   CycleReport
	cycles      int64
}

// Option configures optional Dispatcher behavior.
type Option func(*Dispatcher)

// WithNotifier overrides the notification service built from config.
func WithNotifier(notifier notifications.Service) Option {
	return func(d *Dispatcher) {
		if notifier != nil {
			d.notifier = notifier
		}
	}
}

// NewDispatcher constructs a dispatcher. Poll timing and the concurrency bound
// come from cfg.Workflow.
func NewDispatcher(cfg *config.Config, store Store, resolver DestinationResolver, fetcher fetch.Fetcher, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:         store,
		resolver:      resolver,
		fetcher:       fetcher,
		notifier:      notifications.NewService(cfg),
		logger:        logging.NewComponentLogger(logger, "dispatcher"),
		pollInterval:  cfg.PollInterval(),
		retryInterval: cfg.ErrorRetryInterval(),
		maxConcurrent: cfg.Workflow.MaxConcurrentFetches,
		wake:          make(chan struct{}, 1),
	}
	if d.pollInterval <= 0 {
		d.pollInterval = 10 * time.Second
	}
	if d.retryInterval <= 0 {
		d.retryInterval = d.pollInterval
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wake asks a running loop to start its next cycle without waiting out the
// poll interval. It never blocks; wakes that arrive during a cycle coalesce.
func (d *Dispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) setLastError(err error) {
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}

func (d *Dispatcher) setLastRequest(req *queue.Request) {
	if req == nil {
		return
	}
	copy := *req
	d.mu.Lock()
	d.lastRequest = &copy
	d.mu.Unlock()
}

func (d *Dispatcher) recordCycle(report CycleReport) {
	d.mu.Lock()
	d.lastCycle = report
	d.cycles++
	d.mu.Unlock()
}
