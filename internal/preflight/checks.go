package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"medialib/internal/config"
	"medialib/internal/deps"
)

const versionProbeTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFetchTool runs "<binary> --version" and reports the installed yt-dlp
// release. Extractors break as sites change, so the version is worth showing.
func CheckFetchTool(ctx context.Context, binary string) Result {
	const name = "yt-dlp"

	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{Name: name, Detail: "binary not configured"}
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", binary)}
	}

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	output, err := exec.CommandContext(probeCtx, resolved, "--version").Output()
	if err != nil {
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return Result{Name: name, Detail: "version probe timed out"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("version probe failed (%v)", err)}
	}
	version := strings.TrimSpace(string(output))
	if version == "" {
		version = "unknown version"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", version, resolved)}
}

// CheckSystemDeps evaluates all system-level dependencies for the given config.
// Both the daemon and the CLI status command use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{
			Name:        "yt-dlp",
			Command:     cfg.Fetch.Binary,
			Description: "Required to fetch remote media",
		},
	})
	ffmpeg := deps.CheckFFmpeg(cfg.Fetch.FFmpegPath)
	statuses = append(statuses, ffmpeg)
	if cfg.Fetch.WriteThumbnail {
		statuses = append(statuses, deps.CheckBinaries([]deps.Requirement{{
			Name:        "ffprobe",
			Command:     "ffprobe",
			Description: "Used by yt-dlp when embedding or converting thumbnails",
			Optional:    true,
		}})...)
	}
	return statuses
}
