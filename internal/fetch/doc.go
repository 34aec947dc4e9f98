// Package fetch retrieves remote media into a destination directory.
//
// The Fetcher interface is the only thing the dispatcher knows about. The
// production implementation, YTDLP, drives yt-dlp through go-ytdlp: it
// extracts the best audio stream, transcodes it with ffmpeg into the
// configured format and quality, writes a converted thumbnail next to it, and
// names each file after the media title. Fetches are synchronous; a nil error
// means the tool exited successfully and the output files are in place.
package fetch
