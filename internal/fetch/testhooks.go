package fetch

import (
	"context"

	"github.com/lrstanley/go-ytdlp"
)

// SetRunnerForTests overrides the yt-dlp runner during tests.
func SetRunnerForTests(fn func(context.Context, *ytdlp.Command, string) (*ytdlp.Result, error)) func() {
	previous := runCommand
	runCommand = fn
	return func() {
		runCommand = previous
	}
}
