// Package logging builds the zap loggers used by the CLI and file scanner.
// Log output goes to stderr so it never mixes with report output.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn, or debug
	// when Verbose is set.
	Level   string
	Verbose bool
	// Format is "console" (default) or "json".
	Format string
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	level, err := resolveLevel(opts)
	if err != nil {
		return nil, err
	}
	enc, err := newEncoder(opts.Format)
	if err != nil {
		return nil, err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core).Named("safetype"), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }

func resolveLevel(opts Options) (zapcore.Level, error) {
	if opts.Level == "" {
		if opts.Verbose {
			return zapcore.DebugLevel, nil
		}
		return zapcore.WarnLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	return l, nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	switch format {
	case "", "console":
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	case "json":
		return zapcore.NewJSONEncoder(cfg), nil
	}
	return nil, fmt.Errorf("invalid log format %q: want console or json", format)
}

// Sync flushes l, ignoring the errors terminals return for fsync.
func Sync(l *zap.Logger) error {
	if err := l.Sync(); err != nil && !isStdoutSyncError(err) {
		return err
	}
	return nil
}

func isStdoutSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF)
}
