// Package cache prunes stale files left behind by earlier runs.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/tunedeck/tunedeck/filesystem"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/where"
)

const (
	// LogsTTL is how long daily log files are kept.
	LogsTTL = 14 * 24 * time.Hour
	// CatalogTTL is how long an offline playlist is kept without a refresh.
	CatalogTTL = 30 * 24 * time.Hour
)

// Prune removes regular files under dir older than ttl, along with any
// leftover ".tmp" file. It returns the number of removed files.
func Prune(dir string, ttl time.Duration, now time.Time) (removed int) {
	fs := filesystem.API()

	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if strings.HasSuffix(path, ".tmp") || now.Sub(info.ModTime()) > ttl {
			if err := fs.Remove(path); err != nil {
				log.Warnf("cache: remove %s: %v", filepath.Base(path), err)
				return nil
			}
			removed++
		}
		return nil
	})
	if err != nil {
		log.Warnf("cache: walk %s: %v", dir, err)
	}
	return removed
}

// CollectGarbage prunes old logs and offline playlists in the background.
func CollectGarbage() {
	go func() {
		now := time.Now()
		logs := Prune(where.Logs(), LogsTTL, now)
		playlists := Prune(where.CatalogDir(), CatalogTTL, now)
		if logs+playlists > 0 {
			log.Debugf("cache: pruned %d log files and %d playlists", logs, playlists)
		}
	}()
}
