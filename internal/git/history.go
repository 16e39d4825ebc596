// Package git reads staged and committed file contents by shelling out to the
// git binary.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Blob is one file's content as git stores it. Commit is empty for staged
// blobs.
type Blob struct {
	Path   string
	Commit string
	Data   []byte
}

// Entry groups the blobs touched by one commit.
type Entry struct {
	Hash  string
	Files map[string][]byte
}

// validateRoot validates and normalizes a git repository root path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", errors.New("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

func run(ctx context.Context, root string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", root}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// splitNUL splits -z output into paths.
func splitNUL(b []byte) []string {
	var out []string
	for _, p := range bytes.Split(b, []byte{0}) {
		if len(p) > 0 {
			out = append(out, string(p))
		}
	}
	return out
}

// RepoMetadata returns (repo, commit, branch) best-effort for the given root.
// Empty strings are returned on failure.
func RepoMetadata(ctx context.Context, root string) (string, string, string) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return "", "", ""
	}
	repo := ""
	if out, err := run(ctx, validRoot, "config", "--get", "remote.origin.url"); err == nil {
		s := strings.TrimSuffix(strings.TrimSpace(string(out)), ".git")
		if i := strings.Index(s, "github.com/"); i >= 0 {
			s = s[i+len("github.com/"):]
		} else if i := strings.LastIndex(s, ":"); i >= 0 {
			s = s[i+1:]
		}
		repo = s
	}
	commit := ""
	if out, err := run(ctx, validRoot, "rev-parse", "HEAD"); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	branch := ""
	if out, err := run(ctx, validRoot, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		branch = strings.TrimSpace(string(out))
	}
	return repo, commit, branch
}

// StagedBlobs returns the index contents of every added, copied, modified or
// renamed path.
func StagedBlobs(ctx context.Context, root string) ([]Blob, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	out, err := run(ctx, validRoot, "diff", "--cached", "--name-only", "--diff-filter=ACMR", "-z")
	if err != nil {
		return nil, err
	}
	var blobs []Blob
	for _, p := range splitNUL(out) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := run(ctx, validRoot, "show", ":"+p)
		if err != nil {
			continue
		}
		blobs = append(blobs, Blob{Path: p, Data: b})
	}
	return blobs, nil
}

// LastNCommits returns the files touched by the n most recent commits on
// HEAD, newest first. Deleted paths are omitted.
func LastNCommits(ctx context.Context, root string, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}
	out, err := run(ctx, validRoot, "rev-list", "--max-count", strconv.Itoa(n), "HEAD")
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, h := range strings.Fields(string(out)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		filesOut, err := run(ctx, validRoot, "show", h, "--name-only", "--diff-filter=ACMR", "--pretty=", "-z")
		if err != nil {
			continue
		}
		files := map[string][]byte{}
		for _, p := range splitNUL(filesOut) {
			b, err := run(ctx, validRoot, "show", h+":"+p)
			if err == nil {
				files[p] = b
			}
		}
		entries = append(entries, Entry{Hash: h, Files: files})
	}
	return entries, nil
}

// HistoryBlobs flattens LastNCommits into blobs, commit by commit.
func HistoryBlobs(ctx context.Context, root string, n int) ([]Blob, error) {
	entries, err := LastNCommits(ctx, root, n)
	if err != nil {
		return nil, err
	}
	var blobs []Blob
	for _, e := range entries {
		for p, b := range e.Files {
			blobs = append(blobs, Blob{Path: p, Commit: e.Hash, Data: b})
		}
	}
	return blobs, nil
}
