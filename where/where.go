// Package where resolves the directories tunedeck reads and writes.
// Every returned directory exists.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/filesystem"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "TUNEDECK_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config is the user config dir joined with the app name, or $TUNEDECK_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Tunedeck))
}

// Cache falls back to ./cache when the user cache dir is unknown.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Tunedeck))
}

func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// CatalogDir holds the offline playlists.
func CatalogDir() string {
	return ensureDir(filepath.Join(Cache(), "catalog"))
}

// Catalog is the offline copy of the kind playlist.
func Catalog(kind string) string {
	return filepath.Join(CatalogDir(), kind+".json")
}

func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Tunedeck))
}
