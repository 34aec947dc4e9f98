package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the ffmpeg binary yt-dlp will use for audio extraction
// and thumbnail conversion.
//
// yt-dlp's --ffmpeg-location accepts either the binary itself or the directory
// containing it. When no location is configured yt-dlp resolves "ffmpeg" from
// PATH, and this helper follows the same order.
func CheckFFmpeg(location string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by yt-dlp to transcode audio and convert thumbnails",
	}

	location = strings.TrimSpace(location)
	if location != "" {
		candidate := location
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			candidate = filepath.Join(location, executableName("ffmpeg"))
		}
		result.Command = candidate
		info, err := os.Stat(candidate)
		if err != nil {
			result.Detail = fmt.Sprintf("configured ffmpeg %q not found", candidate)
			return result
		}
		if !isExecutable(info) {
			result.Detail = fmt.Sprintf("configured ffmpeg %q is not executable", candidate)
			return result
		}
		result.Available = true
		return result
	}

	name := executableName("ffmpeg")
	if resolved, err := exec.LookPath(name); err == nil {
		result.Command = resolved
		result.Available = true
		return result
	}
	result.Command = name
	result.Detail = fmt.Sprintf("binary %q not found", name)
	return result
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
