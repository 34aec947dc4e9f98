package fetch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type fileStamp struct {
	size    int64
	modTime time.Time
}

// snapshot records regular files directly inside dir. A missing directory
// yields an empty snapshot.
func snapshot(dir string) (map[string]fileStamp, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]fileStamp{}, nil
		}
		return nil, err
	}
	out := make(map[string]fileStamp, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out[entry.Name()] = fileStamp{size: info.Size(), modTime: info.ModTime()}
	}
	return out, nil
}

// changedFiles returns full paths of files present in after that are new or
// differ from before, sorted by name. yt-dlp partial files are skipped.
func changedFiles(dir string, before, after map[string]fileStamp) []string {
	var changed []string
	for name, stamp := range after {
		if isPartial(name) {
			continue
		}
		prev, ok := before[name]
		if ok && prev.size == stamp.size && prev.modTime.Equal(stamp.modTime) {
			continue
		}
		changed = append(changed, filepath.Join(dir, name))
	}
	sort.Strings(changed)
	return changed
}

func isPartial(name string) bool {
	switch filepath.Ext(name) {
	case ".part", ".ytdl", ".temp":
		return true
	}
	return false
}
