package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "long value shows first 4 chars",
			input:  "sk-1234567890abcdef1234567890abcdef",
			expect: "sk-1***",
		},
		{
			name:   "exactly 5 chars shows first 4",
			input:  "12345",
			expect: "1234***",
		},
		{
			name:   "4 chars or less fully redacted",
			input:  "1234",
			expect: "***",
		},
		{
			name:   "empty string",
			input:  "",
			expect: "***",
		},
		{
			name:   "multibyte prefix kept whole",
			input:  "日本語テキスト",
			expect: "日本語テ***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactSecret(tt.input)
			if got != tt.expect {
				t.Errorf("redactSecret(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestDefaultPrefs(t *testing.T) {
	if DefaultPrefs().HideMatches {
		t.Error("DefaultPrefs().HideMatches should be false")
	}
}

func TestLoadPrefs_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if LoadPrefs().HideMatches {
		t.Error("LoadPrefs() with no file should return defaults")
	}
}

func TestSaveAndLoadPrefs(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	if err := SavePrefs(Prefs{HideMatches: true}); err != nil {
		t.Fatalf("SavePrefs failed: %v", err)
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	prefsFile := filepath.Join(dir, "safetype", "tui_prefs.json")
	if _, err := os.Stat(prefsFile); os.IsNotExist(err) {
		t.Fatal("prefs file was not created")
	}

	if !LoadPrefs().HideMatches {
		t.Error("Loaded prefs should have HideMatches=true")
	}

	if err := SavePrefs(Prefs{}); err != nil {
		t.Fatalf("SavePrefs failed: %v", err)
	}
	if LoadPrefs().HideMatches {
		t.Error("Loaded prefs should have HideMatches=false")
	}
}

func TestLoadPrefs_CorruptFileFallsBack(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	dir, err := os.UserConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "safetype"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "safetype", "tui_prefs.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if LoadPrefs() != DefaultPrefs() {
		t.Error("corrupt prefs should fall back to defaults")
	}
}
