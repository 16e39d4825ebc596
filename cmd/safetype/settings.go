package safetype

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/safetype/safetype/internal/config"
	"github.com/safetype/safetype/internal/logging"
	"github.com/safetype/safetype/internal/rules"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// settings is the merged view of flags, local config and global config for
// one command run.
type settings struct {
	root    string
	paths   []string
	local   config.FileConfig
	global  config.FileConfig
	catalog *rules.Catalog
	log     *zap.Logger
}

// loadSettings resolves the scan root from args and loads both config files.
// A single directory argument becomes the root; anything else is scanned
// relative to the working directory. Missing config files are fine; broken
// ones are errors.
func loadSettings(cmd *cobra.Command, g *globalFlags, args []string) (*settings, error) {
	s := &settings{}
	root := "."
	if len(args) == 1 && args[0] != "-" {
		if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
			root = args[0]
			args = nil
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	s.root = abs
	s.paths = args

	c, err := config.LoadGlobal()
	switch {
	case err == nil:
		s.global = c
	case errors.Is(err, config.ErrNotFound):
	default:
		// no resolvable config dir is not an error
		if _, perr := config.GlobalPath(); perr == nil {
			return nil, err
		}
	}
	if c, err := config.LoadLocal(s.root); err == nil {
		s.local = c
	} else if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	specs := append(append([]rules.Spec{}, s.global.Rules...), s.local.Rules...)
	s.catalog, err = config.FileConfig{Rules: specs}.CompileRules()
	if err != nil {
		return nil, fmt.Errorf("config rules: %w", err)
	}

	s.log, err = logging.New(logging.Options{
		Level:   pickString(g.logLevel, s.local.LogLevel, s.global.LogLevel),
		Verbose: g.verbose,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// noColor reports whether output to cmd's stdout should be plain.
func (s *settings) noColor(cmd *cobra.Command, g *globalFlags) bool {
	if pickBool(g.noColor, s.local.NoColor, s.global.NoColor) {
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !isTerminal(cmd.OutOrStdout())
}

// resolvePath makes p absolute against the scan root.
func (s *settings) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}
