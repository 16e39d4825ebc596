package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/safetype/safetype/internal/ignore"
	"go.uber.org/zap"
)

// StdinPath is the path argument that selects standard input, and the path
// findings from it are reported under.
const StdinPath = "-"

// IgnoreFileDirective anywhere in a file excludes the whole file.
const IgnoreFileDirective = "safetype:ignore-file"

// pathTargets resolves cfg.Paths (or cfg.Root) into scan targets. Files named
// explicitly bypass globs, the ignore file and default excludes. Files found
// by walking a directory do not.
func pathTargets(ctx context.Context, cfg Config, ign ignore.Matcher, submit func(target)) error {
	log := cfg.Logger
	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{cfg.Root}
	}
	seen := map[string]bool{}
	emit := func(p string, data []byte) {
		if seen[p] {
			return
		}
		seen[p] = true
		submit(target{path: p, data: data})
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == StdinPath {
			data, err := readStdin(cfg)
			if err != nil {
				return err
			}
			if data != nil {
				emit(StdinPath, data)
			}
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("scan %s: %w", p, err)
		}
		if info.IsDir() {
			if err := Walk(ctx, cfg, p, ign, emit); err != nil {
				return err
			}
			continue
		}
		if info.Size() > cfg.MaxBytes {
			log.Debug("skipped file", zap.String("path", p), zap.String("reason", "size"))
			continue
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("scan %s: %w", p, err)
		}
		rel := displayPath(cfg.Root, p)
		if reason := contentSkipReason(rel, b); reason != "" {
			log.Debug("skipped file", zap.String("path", rel), zap.String("reason", reason))
			continue
		}
		emit(rel, b)
	}
	return nil
}

func readStdin(cfg Config) ([]byte, error) {
	r := cfg.Stdin
	if r == nil {
		r = os.Stdin
	}
	b, err := io.ReadAll(io.LimitReader(r, cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if int64(len(b)) > cfg.MaxBytes {
		cfg.Logger.Warn("stdin exceeds max bytes; skipped", zap.Int64("max_bytes", cfg.MaxBytes))
		return nil, nil
	}
	return b, nil
}

// Walk traverses dir and invokes handle for each eligible file with its path
// relative to cfg.Root, in lexical order. Unreadable entries are skipped.
func Walk(ctx context.Context, cfg Config, dir string, ign ignore.Matcher, handle func(path string, data []byte)) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			log.Debug("walk error", zap.String("path", p), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			if p != dir && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel := displayPath(cfg.Root, p)
		info, _ := d.Info()
		if info != nil && info.Size() > maxBytes {
			log.Debug("skipped file", zap.String("path", rel), zap.String("reason", "size"))
			return nil
		}
		if reason := pathSkipReason(rel, cfg, ign); reason != "" {
			log.Debug("skipped file", zap.String("path", rel), zap.String("reason", reason))
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			log.Warn("unreadable file", zap.String("path", rel), zap.Error(err))
			return nil
		}
		if reason := contentSkipReason(rel, b); reason != "" {
			log.Debug("skipped file", zap.String("path", rel), zap.String("reason", reason))
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// skipReason applies every filter to a blob that has no directory walk
// behind it, such as a git object.
func skipReason(rel string, data []byte, cfg Config, ign ignore.Matcher) string {
	if int64(len(data)) > cfg.MaxBytes {
		return "size"
	}
	if reason := pathSkipReason(rel, cfg, ign); reason != "" {
		return reason
	}
	if cfg.DefaultExcludes {
		for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(rel)), "/") {
			if part != "." && isDefaultDirExcluded(part) {
				return "default-exclude"
			}
		}
	}
	return contentSkipReason(rel, data)
}

func pathSkipReason(rel string, cfg Config, ign ignore.Matcher) string {
	if !allowedByGlobs(rel, cfg) {
		return "glob"
	}
	if ign.Match(rel) {
		return "ignore-file"
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(filepath.ToSlash(rel))) {
		return "default-exclude"
	}
	return ""
}

func contentSkipReason(rel string, b []byte) string {
	if bytes.Contains(b, []byte(IgnoreFileDirective)) {
		return "directive"
	}
	if looksBinary(b) || looksNonTextMIME(rel, b) {
		return "binary"
	}
	return ""
}

// displayPath reports p relative to root when p lies under it, with forward
// slashes.
func displayPath(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}

func looksBinary(b []byte) bool {
	const sniff = 800
	return bytes.IndexByte(b[:min(len(b), sniff)], 0) >= 0
}

// looksNonTextMIME uses the file extension and a tiny content sniff to skip
// clearly non-text content in addition to NUL-byte detection.
func looksNonTextMIME(path string, b []byte) bool {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip") {
			return true
		}
	}
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	if len(b) >= 4 && string(b[:4]) == "PK\x03\x04" {
		return true
	}
	return false
}
