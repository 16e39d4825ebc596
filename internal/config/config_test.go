package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/safetype/safetype/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "safetype.yaml", "threads: 4\nmax_bytes: 123\nfail_on: high\nmin_confidence: 0.5\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.FailOn == nil || *cfg.FailOn != "high" {
		t.Fatalf("expected fail_on=high, got %#v", cfg.FailOn)
	}
	if cfg.NoColor != nil {
		t.Fatalf("expected no_color unset, got %v", *cfg.NoColor)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad.yaml":   "threads: [1\n",
		"conf.yaml":  "min_confidence: 1.5\n",
		"fail.yaml":  "fail_on: critical\n",
		"neg.yaml":   "threads: -1\n",
		"bytes.yaml": "max_bytes: -5\n",
	}
	for name, body := range tests {
		_, err := LoadFile(writeTemp(t, dir, name, body))
		assert.Error(t, err, name)
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "safetype.yaml", "threads: 1\n")
	writeTemp(t, dir, ".safetype.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .safetype.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "safetype")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadGlobal()
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 9, *cfg.Threads)
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	// Simulate no HOME as well by clearing HOME; LoadGlobal should error
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestCompileRules(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, ".safetype.yml", `
rules:
  - id: slack-token
    type: api_key
    pattern: 'xox[baprs]-[0-9A-Za-z-]{10,48}'
    confidence: 0.9
    keywords: [Slack]
`)
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	cat, err := cfg.CompileRules()
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "openai-api-key", "aws-access-key", "jwt-token", "private-key", "slack-token"}, cat.IDs())
	r, ok := cat.Get("slack-token")
	require.True(t, ok)
	assert.Equal(t, types.TypeAPIKey, r.Type)
	assert.Equal(t, []string{"slack"}, r.Keywords)

	empty, err := FileConfig{}.CompileRules()
	require.NoError(t, err)
	assert.Equal(t, 5, empty.Len())
}

func TestCompileRules_Errors(t *testing.T) {
	dup := writeTemp(t, t.TempDir(), "dup.yml", "rules:\n  - id: email\n    pattern: x\n    confidence: 0.1\n")
	c, err := LoadFile(dup)
	require.NoError(t, err)
	_, err = c.CompileRules()
	assert.ErrorContains(t, err, "duplicate id")

	bad := writeTemp(t, t.TempDir(), "bad.yml", "rules:\n  - id: x\n    pattern: '('\n")
	c, err = LoadFile(bad)
	require.NoError(t, err)
	_, err = c.CompileRules()
	assert.ErrorContains(t, err, "rule x: invalid pattern")
}

func TestTemplateParses(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", ".safetype.yml")
	require.NoError(t, WriteTemplate(p, false))
	cfg, err := LoadFile(p)
	require.NoError(t, err)
	require.NotNil(t, cfg.FailOn)
	assert.Equal(t, "medium", *cfg.FailOn)
	assert.True(t, *cfg.DefaultExcludes)

	assert.ErrorContains(t, WriteTemplate(p, false), "already exists")
	assert.NoError(t, WriteTemplate(p, true))
}
