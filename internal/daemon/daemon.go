package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"medialib/internal/config"
	"medialib/internal/deps"
	"medialib/internal/logging"
	"medialib/internal/notifications"
	"medialib/internal/preflight"
	"medialib/internal/queue"
	"medialib/internal/textutil"
	"medialib/internal/workflow"
)

var errStoreUnavailable = errors.New("queue store unavailable")

// Daemon coordinates the dispatcher and HTTP API and enforces single-instance execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *queue.Store
	dispatcher *workflow.Dispatcher
	logPath    string

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	Workflow     workflow.StatusSummary
	QueueDBPath  string
	LockFilePath string
	SocketPath   string
	APIBind      string
	LogPath      string
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, dispatcher *workflow.Dispatcher) (*Daemon, error) {
	if cfg == nil || store == nil || dispatcher == nil {
		return nil, errors.New("daemon requires config, store, and dispatcher")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		dispatcher: dispatcher,
		logPath:    filepath.Join(cfg.Paths.LogDir, logging.DaemonLogName),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, launches the dispatcher, and starts the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another medialib daemon instance is already running")
	}

	d.failInterrupted(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.dispatcher.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start dispatcher: %w", err)
	}

	api, err := newAPIServer(d.cfg, d, d.logger)
	if err == nil {
		err = api.start(runCtx)
	}
	if err != nil {
		d.dispatcher.Stop()
		cancel()
		_ = d.lock.Unlock()
		return err
	}

	d.api = api
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("medialib daemon started",
		logging.String("lock", d.lockPath),
		logging.String("queue_db", d.store.Path()),
	)
	return nil
}

// failInterrupted settles rows a previous process left in progress. It runs
// only while holding the lock so a live daemon's claims are never touched.
func (d *Daemon) failInterrupted(ctx context.Context) {
	failed, err := d.store.FailInterrupted(ctx, queue.DaemonStopReason)
	if err != nil {
		d.logger.Warn("failed to settle interrupted requests", logging.Error(err))
		return
	}
	if failed > 0 {
		logging.WarnWithContext(d.logger, "requests interrupted by previous shutdown marked failed", "interrupted_requests_failed",
			logging.Int64("count", failed),
			logging.String(logging.FieldErrorHint, "requeue them with medialib queue requeue"),
		)
	}
}

// Stop stops the dispatcher loop and HTTP API and releases the daemon lock.
// Fetches already running finish on their own.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.dispatcher.Stop()
	d.api.stop()
	d.api = nil
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("medialib daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// APIAddress returns the bound HTTP API address, or "" when the API is disabled.
func (d *Daemon) APIAddress() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Workflow:     d.dispatcher.Status(ctx),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		SocketPath:   d.cfg.SocketPath(),
		APIBind:      d.APIAddress(),
		LogPath:      d.logPath,
		Dependencies: preflight.CheckSystemDeps(ctx, d.cfg),
	}
}

// Enqueue adds a pending request and wakes the dispatcher.
func (d *Daemon) Enqueue(ctx context.Context, owner, source string) (*queue.Request, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	req, err := d.store.Enqueue(ctx, owner, source)
	if err != nil {
		return nil, err
	}
	d.logger.Info("request queued",
		logging.Int64(logging.FieldRequestID, req.ID),
		logging.String(logging.FieldOwner, req.Owner),
		logging.String(logging.FieldSource, req.Source),
	)
	d.dispatcher.Wake()
	return req, nil
}

// ListQueue returns requests filtered by optional owner and statuses.
func (d *Daemon) ListQueue(ctx context.Context, owner string, statuses []queue.Status) ([]*queue.Request, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	if strings.TrimSpace(owner) != "" {
		return d.store.ListByOwner(ctx, owner, statuses...)
	}
	return d.store.List(ctx, statuses...)
}

// Describe returns a single request or nil when the id is unknown.
func (d *Daemon) Describe(ctx context.Context, id int64) (*queue.Request, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.GetByID(ctx, id)
}

// Requeue enqueues a copy of a finished request and wakes the dispatcher.
func (d *Daemon) Requeue(ctx context.Context, id int64) (*queue.Request, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	req, err := d.store.Requeue(ctx, id)
	if err != nil {
		return nil, err
	}
	d.dispatcher.Wake()
	return req, nil
}

// ClearTerminal removes done and/or failed requests.
func (d *Daemon) ClearTerminal(ctx context.Context, statuses ...queue.Status) (int64, error) {
	if d.store == nil {
		return 0, errStoreUnavailable
	}
	return d.store.ClearTerminal(ctx, statuses...)
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	if d.store == nil {
		return queue.HealthSummary{}, errStoreUnavailable
	}
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (queue.DatabaseHealth, error) {
	if d.store == nil {
		return queue.DatabaseHealth{}, errStoreUnavailable
	}
	return d.store.CheckHealth(ctx)
}

// SetOwner registers or updates an owner. A blank directory maps the owner to
// a folded name under the configured library directory.
func (d *Daemon) SetOwner(ctx context.Context, name, directory string) (*queue.Owner, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	resolved, err := ResolveOwnerDirectory(d.cfg, name, directory)
	if err != nil {
		return nil, err
	}
	return d.store.UpsertOwner(ctx, name, resolved)
}

// ListOwners returns every registered owner.
func (d *Daemon) ListOwners(ctx context.Context) ([]*queue.Owner, error) {
	if d.store == nil {
		return nil, errStoreUnavailable
	}
	return d.store.ListOwners(ctx)
}

// RemoveOwner deletes an owner mapping. Pending requests for that owner will
// fail on their next cycle.
func (d *Daemon) RemoveOwner(ctx context.Context, name string) (bool, error) {
	if d.store == nil {
		return false, errStoreUnavailable
	}
	return d.store.RemoveOwner(ctx, name)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.Publish(ctx, notifications.EventTest, nil); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// ResolveOwnerDirectory returns the absolute directory used for an owner.
// The CLI's direct-store fallback shares this rule with the daemon.
func ResolveOwnerDirectory(cfg *config.Config, name, directory string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: owner name is required", queue.ErrInvalidRequest)
	}
	directory = strings.TrimSpace(directory)
	if directory == "" {
		if strings.TrimSpace(cfg.Paths.LibraryDir) == "" {
			return "", fmt.Errorf("%w: no directory given and paths.library_dir is empty", queue.ErrInvalidRequest)
		}
		return filepath.Join(cfg.Paths.LibraryDir, textutil.OwnerDirName(name)), nil
	}
	return config.ExpandPath(directory)
}
