// Package version tracks the application release and checks for newer ones.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/filesystem"
	"github.com/tunedeck/tunedeck/network"
	"github.com/tunedeck/tunedeck/util"
	"github.com/tunedeck/tunedeck/where"
)

// ReleasesURL is queried for the latest published release.
var ReleasesURL = "https://api.github.com/repos/tunedeck/tunedeck/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest release version without the "v" prefix.
// Results are cached for two days.
func Latest(ctx context.Context) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ReleasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	ver = strings.TrimPrefix(release.TagName, "v")
	if ver == "" {
		return "", errors.New("empty tag name")
	}

	_ = versionCacher.Set(ver)
	return ver, nil
}
