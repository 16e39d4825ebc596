// Package update checks GitHub for a newer safetype release. Results are
// cached for a day under the user config directory.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blang/semver/v4"
)

const (
	// Repo is the GitHub slug releases are published under.
	Repo          = "safetype/safetype"
	latestURL     = "https://api.github.com/repos/" + Repo + "/releases/latest"
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// Checker looks up the latest release. The zero value queries GitHub.
type Checker struct {
	URL    string
	Client *http.Client
	// Dir holds the cache file; empty means ConfigDir().
	Dir string
	Now func() time.Time
}

// ConfigDir returns $XDG_CONFIG_HOME/safetype or ~/.config/safetype, or ""
// when neither can be determined.
func ConfigDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "safetype")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "safetype")
}

func (c Checker) dir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return ConfigDir()
}

func (c Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Checker) loadCache() (cache, error) {
	var ca cache
	dir := c.dir()
	if dir == "" {
		return ca, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return ca, err
	}
	_ = json.Unmarshal(b, &ca)
	return ca, nil
}

func (c Checker) saveCache(ca cache) {
	dir := c.dir()
	if dir == "" {
		return
	}
	_ = os.MkdirAll(dir, 0755)
	b, _ := json.MarshalIndent(ca, "", "  ")
	_ = os.WriteFile(filepath.Join(dir, cacheFileName), b, 0644)
}

// Latest fetches the tag of the latest release.
func (c Checker) Latest(ctx context.Context) (string, error) {
	url := c.URL
	if url == "" {
		url = latestURL
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "safetype-updater")
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("latest release: %s", resp.Status)
	}
	var obj struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	v := obj.TagName
	if v == "" {
		v = obj.Name
	}
	return v, nil
}

// Check returns the latest version and whether it is newer than current. It
// uses the cache while it is fresh and never fails on network errors. In CI
// or with noNetwork set it does nothing.
func (c Checker) Check(ctx context.Context, current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	current = normalize(current)
	ca, _ := c.loadCache()
	latest := ca.Latest
	if c.now().Sub(ca.LastChecked) > cacheTTL || latest == "" {
		if v, err := c.Latest(ctx); err == nil {
			latest = normalize(v)
			ca.Latest = latest
			ca.LastChecked = c.now()
			c.saveCache(ca)
		}
	}
	if latest == "" || current == "" {
		return latest, false, nil
	}
	return latest, Newer(latest, current), nil
}

// Check runs the default Checker.
func Check(current string, noNetwork bool) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return Checker{}.Check(ctx, current, noNetwork)
}

// Newer reports whether latest is a higher semantic version than current.
// Unparseable versions, such as "dev", are never older.
func Newer(latest, current string) bool {
	lv, err := semver.ParseTolerant(latest)
	if err != nil {
		return false
	}
	cv, err := semver.ParseTolerant(current)
	if err != nil {
		return false
	}
	return lv.GT(cv)
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}
