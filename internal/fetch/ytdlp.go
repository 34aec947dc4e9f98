package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"medialib/internal/config"
	"medialib/internal/logging"
	"medialib/internal/services"
)

const (
	progressInterval = 2 * time.Second
	stderrTailLimit  = 400
)

// runCommand executes a prepared yt-dlp command. It is a package-level
// variable so tests can avoid spawning the real tool.
var runCommand = func(ctx context.Context, cmd *ytdlp.Command, source string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, source)
}

// YTDLP fetches media with yt-dlp, extracting and transcoding audio with ffmpeg.
type YTDLP struct {
	cfg    config.Fetch
	logger *slog.Logger
}

// NewYTDLP constructs the production fetcher from the fetch configuration.
func NewYTDLP(cfg *config.Config, logger *slog.Logger) *YTDLP {
	return &YTDLP{
		cfg:    cfg.Fetch,
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch downloads job.Source into job.Destination. The destination is created
// when missing; failure to create it fails the fetch.
func (y *YTDLP) Fetch(ctx context.Context, job Job) (Result, error) {
	if err := validateJob(job); err != nil {
		return Result{}, err
	}
	logger := logging.WithContext(ctx, y.logger).With(
		logging.String(logging.FieldSource, job.Source),
		logging.String("destination", job.Destination),
	)

	if err := os.MkdirAll(job.Destination, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "fetch", "create destination", job.Destination, err)
	}
	before, err := snapshot(job.Destination)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "fetch", "read destination", job.Destination, err)
	}

	if timeout := time.Duration(y.cfg.TimeoutSeconds) * time.Second; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := y.command(job.Destination, logger)
	started := time.Now()
	logger.Info("fetch started", logging.String(logging.FieldEventType, "fetch_start"))

	result, runErr := runCommand(ctx, cmd, job.Source)

	after, err := snapshot(job.Destination)
	if err != nil {
		after = map[string]fileStamp{}
	}
	files := changedFiles(job.Destination, before, after)

	if runErr != nil {
		return Result{Files: files}, classifyRunError(ctx, job, result, runErr)
	}

	logger.Info("fetch completed",
		logging.String(logging.FieldEventType, "fetch_complete"),
		logging.Int("files", len(files)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Result{Files: files}, nil
}

func (y *YTDLP) command(destination string, logger *slog.Logger) *ytdlp.Command {
	template := strings.TrimSpace(y.cfg.OutputTemplate)
	if template == "" {
		template = "%(title)s.%(ext)s"
	}

	cmd := ytdlp.New().
		ExtractAudio().
		AudioFormat(y.cfg.AudioFormat).
		AudioQuality(y.cfg.AudioQuality).
		IgnoreErrors().
		Output(filepath.Join(destination, template))
	if binary := strings.TrimSpace(y.cfg.Binary); binary != "" {
		cmd.SetExecutable(binary)
	}
	if location := strings.TrimSpace(y.cfg.FFmpegPath); location != "" {
		cmd.FFmpegLocation(location)
	}
	if y.cfg.WriteThumbnail {
		cmd.WriteThumbnail()
		if format := strings.TrimSpace(y.cfg.ThumbnailFormat); format != "" {
			cmd.ConvertThumbnails(format)
		}
	}

	sampler := logging.NewProgressSampler(25)
	cmd.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		percent := -1.0
		if update.TotalBytes > 0 {
			percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		}
		phase := string(update.Status) + ":" + filepath.Base(update.Filename)
		if !sampler.ShouldLog(percent, phase) {
			return
		}
		attrs := []logging.Attr{
			logging.String("status", string(update.Status)),
			logging.String("file", filepath.Base(update.Filename)),
		}
		if percent >= 0 {
			attrs = append(attrs, logging.Float64("percent", percent))
		}
		if eta := update.ETA(); eta > 0 {
			attrs = append(attrs, logging.Duration("eta", eta))
		}
		logger.Debug("fetch progress", logging.Args(attrs...)...)
	})
	return cmd
}

func classifyRunError(ctx context.Context, job Job, result *ytdlp.Result, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "fetch", "yt-dlp", fmt.Sprintf("timed out fetching %s", job.Source), err)
	}
	if errors.Is(err, context.Canceled) {
		return services.Wrap(services.ErrTransient, "fetch", "yt-dlp", "fetch canceled", err)
	}
	message := "yt-dlp failed"
	if result != nil {
		if tail := stderrTail(result.Stderr); tail != "" {
			message = tail
		}
	}
	return services.Wrap(services.ErrExternalTool, "fetch", "yt-dlp", message, err)
}

// stderrTail keeps the last ERROR line yt-dlp printed, or the final stderr
// line when no ERROR line exists, trimmed to a readable length.
func stderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	picked := ""
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if picked == "" {
			picked = line
		}
		if strings.HasPrefix(line, "ERROR:") {
			picked = line
			break
		}
	}
	if len(picked) > stderrTailLimit {
		picked = picked[:stderrTailLimit] + "..."
	}
	return picked
}
