package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"medialib/internal/config"
	"medialib/internal/daemon"
	"medialib/internal/fetch"
	"medialib/internal/ipc"
	"medialib/internal/logging"
	"medialib/internal/preflight"
	"medialib/internal/queue"
	"medialib/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the medialib daemon and blocks until SIGINT/SIGTERM or cmdCtx
// is cancelled.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	activeLog := filepath.Join(cfg.Paths.LogDir, logging.DaemonLogName)
	if err := rotateLog(activeLog, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to rotate previous log: %v\n", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Paths.LogDir, "medialib-*.log", cfg.Logging.RetentionDays, activeLog)

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return err
	}
	defer store.Close()

	logPreflight(signalCtx, logger, cfg)

	fetcher := fetch.NewYTDLP(cfg, logger)
	dispatcher := workflow.NewDispatcher(cfg, store, store, fetcher, logger)

	d, err := daemon.New(cfg, store, logger, dispatcher)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Stop()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-signalCtx.Done()
	logger.Info("medialib daemon shutting down")
	return nil
}

// rotateLog renames the previous run's log so each run starts a fresh file.
func rotateLog(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	stamp := now.UTC().Format("20060102T150405")
	ext := filepath.Ext(path)
	rotated := strings.TrimSuffix(path, ext) + "-" + stamp + ext
	return os.Rename(path, rotated)
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logPreflight(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, "requests may fail until this is fixed"),
		)
	}
	for _, dep := range preflight.CheckSystemDeps(ctx, cfg) {
		logger.Info("dependency snapshot",
			logging.String(logging.FieldEventType, "dependency_snapshot"),
			logging.String("name", dep.Name),
			logging.String("command", dep.Command),
			logging.Bool("available", dep.Available),
			logging.Bool("optional", dep.Optional),
		)
	}
}
