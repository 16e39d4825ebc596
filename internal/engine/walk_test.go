package engine

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/safetype/safetype/internal/ignore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkPaths(t *testing.T, cfg Config) []string {
	t.Helper()
	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	require.NoError(t, err)
	var got []string
	require.NoError(t, Walk(context.Background(), cfg, cfg.Root, ign, func(path string, _ []byte) {
		got = append(got, path)
	}))
	sort.Strings(got)
	return got
}

func TestWalk_InlineIgnoreAndMaxBytes(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "a.txt", "ok")
	mustWrite(t, dir, "big.txt", string(make([]byte, 2048)))
	mustWrite(t, dir, "ignored.txt", "// safetype:ignore-file\nAKIAABCDEFGHIJKLMNOP")
	mustWrite(t, dir, "listed.txt", "x")
	mustWrite(t, dir, ignore.FileName, "listed.txt\n")

	got := walkPaths(t, Config{Root: dir, MaxBytes: 1024})
	// the ignore file itself is not auto-ignored
	assert.Equal(t, []string{".safetypeignore", "a.txt"}, got)
}

func TestWalk_WithIncludeExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "a.txt", "hello")
	mustWrite(t, dir, "src/b.go", "package main\n")
	mustWrite(t, dir, "c.md", "doc")

	got := walkPaths(t, Config{Root: dir, IncludeGlobs: "**/*.go"})
	assert.Equal(t, []string{"src/b.go"}, got)

	got = walkPaths(t, Config{Root: dir, ExcludeGlobs: "*.md, src/**"})
	assert.Equal(t, []string{"a.txt"}, got)
}

func TestWalk_DefaultExcludes(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, dir, "main.go", "package main")
	mustWrite(t, dir, "vendor/x/x.go", "package x")
	mustWrite(t, dir, "web/node_modules/y/index.js", "module.exports = 1")
	mustWrite(t, dir, "yarn.lock", "lock")
	mustWrite(t, dir, "app.min.js", "min")
	mustWrite(t, dir, "safetype.baseline.json", "{}")

	assert.Equal(t, []string{"main.go"}, walkPaths(t, Config{Root: dir, DefaultExcludes: true}))
	assert.Len(t, walkPaths(t, Config{Root: dir}), 6)
}

func TestAllowedByGlobs(t *testing.T) {
	tests := []struct {
		path, include, exclude string
		want                   bool
	}{
		{"a/b/c.go", "", "", true},
		{"a/b/c.go", "**/*.go", "", true},
		{"a/b/c.go", "*.go", "", true},
		{"a/b/c.txt", "*.go,*.md", "", false},
		{"a/b/c.go", "", "a/**", false},
		{"a/b/c.go", "**/*.go", "**/b/*", false},
		{`a\b\c.go`, "a/b/*.go", "", true},
	}
	for _, tt := range tests {
		cfg := Config{IncludeGlobs: tt.include, ExcludeGlobs: tt.exclude}
		assert.Equal(t, tt.want, allowedByGlobs(tt.path, cfg), "%s inc=%q exc=%q", tt.path, tt.include, tt.exclude)
	}
}

func TestLooksNonText(t *testing.T) {
	assert.True(t, looksBinary([]byte("abc\x00def")))
	assert.False(t, looksBinary([]byte("plain text")))
	assert.True(t, looksNonTextMIME("img.png", nil))
	assert.True(t, looksNonTextMIME("blob", []byte("PK\x03\x04rest")))
	assert.False(t, looksNonTextMIME("notes.txt", []byte("PKG list")))
}
