package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs holds demo preferences that persist across sessions.
type Prefs struct {
	// HideMatches masks raw matches on result cards.
	HideMatches bool `json:"hide_matches"`
}

// DefaultPrefs returns the default preferences. Matches are shown, as in the
// browser demo.
func DefaultPrefs() Prefs {
	return Prefs{}
}

// prefsPath returns the path to the preferences file.
func prefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "safetype", "tui_prefs.json"), nil
}

// LoadPrefs loads preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()

	path, err := prefsPath()
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	_ = json.Unmarshal(data, &prefs)
	return prefs
}

// SavePrefs persists preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// redactSecret shows the first 4 characters of a value followed by "***".
// Values of 4 characters or fewer are fully redacted.
func redactSecret(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return "***"
	}
	return string(r[:4]) + "***"
}
