package engine

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/safetype/safetype/internal/diagnostics"
	"github.com/safetype/safetype/internal/git"
	"github.com/safetype/safetype/internal/ignore"
	"github.com/safetype/safetype/internal/rules"
	"github.com/safetype/safetype/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config controls file scanning: what to read, how to filter it and how many
// files to scan at once.
type Config struct {
	// Root anchors relative paths, globs and the ignore file. Defaults to ".".
	Root string
	// Paths lists files or directories to scan; "-" reads Stdin. Empty means
	// Root. Ignored when ScanStaged or HistoryCommits is set.
	Paths []string
	Stdin io.Reader

	IncludeGlobs    string
	ExcludeGlobs    string
	DefaultExcludes bool
	MaxBytes        int64

	ScanStaged     bool
	HistoryCommits int

	Threads       int
	Catalog       *rules.Catalog // nil means rules.Default()
	EnableRules   string
	DisableRules  string
	MinConfidence float64

	Logger   *zap.Logger
	Progress func()
}

// DefaultMaxBytes is the per-file size cap used when Config.MaxBytes is zero.
const DefaultMaxBytes int64 = 1 << 20

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	Duration     time.Duration
}

// target is one buffer queued for scanning.
type target struct {
	path   string
	commit string
	data   []byte
}

func (cfg *Config) normalize() {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.Catalog == nil {
		cfg.Catalog = rules.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
}

// ScanFiles scans the sources named by cfg with a bounded pool of workers
// sharing one Scanner. Findings are sorted by path, commit, then offset.
func ScanFiles(ctx context.Context, cfg Config) (Result, error) {
	cfg.normalize()
	var result Result
	started := time.Now()
	log := cfg.Logger

	cat := cfg.Catalog.Filter(rules.SplitIDs(cfg.EnableRules), rules.SplitIDs(cfg.DisableRules))
	scanner := New(cat)

	ign, err := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err != nil {
		log.Warn("ignore file unreadable", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)

	var mu sync.Mutex
	submit := func(t target) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs := scanner.Findings(t.path, string(t.data))
			for i := range fs {
				fs[i].Commit = t.commit
			}
			fs = filterByConfidence(fs, cfg.MinConfidence)
			mu.Lock()
			result.Findings = append(result.Findings, fs...)
			result.FilesScanned++
			if cfg.Progress != nil {
				cfg.Progress()
			}
			mu.Unlock()
			return nil
		})
	}

	var srcErr error
	switch {
	case cfg.ScanStaged || cfg.HistoryCommits > 0:
		srcErr = gitTargets(gctx, cfg, ign, submit)
	default:
		srcErr = pathTargets(gctx, cfg, ign, submit)
	}
	if err := g.Wait(); srcErr == nil {
		srcErr = err
	}
	if srcErr != nil {
		return result, srcErr
	}

	sortFindings(result.Findings)
	result.Duration = time.Since(started)
	log.Debug("scan finished",
		zap.Int("files", result.FilesScanned),
		zap.Int("findings", len(result.Findings)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// Findings scans text and locates each result in it as a 1-based line and
// column.
func (s *Scanner) Findings(path, text string) []types.Finding {
	results := s.Scan(text)
	if len(results) == 0 {
		return nil
	}
	idx := diagnostics.NewLineIndex(text)
	out := make([]types.Finding, len(results))
	for i, r := range results {
		pos := idx.Position(r.StartIndex)
		out[i] = types.Finding{
			Path:            path,
			Line:            pos.Line + 1,
			Column:          pos.Character + 1,
			DetectionResult: r,
		}
	}
	return out
}

func gitTargets(ctx context.Context, cfg Config, ign ignore.Matcher, submit func(target)) error {
	log := cfg.Logger
	var blobs []git.Blob
	if cfg.ScanStaged {
		staged, err := git.StagedBlobs(ctx, cfg.Root)
		if err != nil {
			return fmt.Errorf("read staged files: %w", err)
		}
		blobs = append(blobs, staged...)
	}
	if cfg.HistoryCommits > 0 {
		hist, err := git.HistoryBlobs(ctx, cfg.Root, cfg.HistoryCommits)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		blobs = append(blobs, hist...)
	}
	for _, b := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if reason := skipReason(b.Path, b.Data, cfg, ign); reason != "" {
			log.Debug("skipped blob", zap.String("path", b.Path), zap.String("commit", b.Commit), zap.String("reason", reason))
			continue
		}
		submit(target{path: b.Path, commit: b.Commit, data: b.Data})
	}
	return nil
}

func filterByConfidence(fs []types.Finding, min float64) []types.Finding {
	if min <= 0 {
		return fs
	}
	out := fs[:0]
	for _, f := range fs {
		if f.Confidence >= min {
			out = append(out, f)
		}
	}
	return out
}

func sortFindings(fs []types.Finding) {
	slices.SortStableFunc(fs, func(a, b types.Finding) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Commit, b.Commit); c != 0 {
			return c
		}
		return cmp.Compare(a.StartIndex, b.StartIndex)
	})
}
