package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/safetype/safetype/internal/rules"
	"gopkg.in/yaml.v3"
)

// LocalNames are the repo-local config file names, in lookup order.
var LocalNames = []string{".safetype.yml", ".safetype.yaml", "safetype.yml", "safetype.yaml"}

// ErrNotFound is returned when no config file exists at the searched
// locations.
var ErrNotFound = errors.New("config not found")

// FileConfig is the on-disk YAML configuration shape for SafeType.
type FileConfig struct {
	Include         *string  `yaml:"include"`
	Exclude         *string  `yaml:"exclude"`
	MaxBytes        *int64   `yaml:"max_bytes"`
	Enable          *string  `yaml:"enable"`
	Disable         *string  `yaml:"disable"`
	Threads         *int     `yaml:"threads"`
	MinConfidence   *float64 `yaml:"min_confidence"`
	NoColor         *bool    `yaml:"no_color"`
	DefaultExcludes *bool    `yaml:"default_excludes"`
	FailOn          *string  `yaml:"fail_on"`
	Baseline        *string  `yaml:"baseline"`
	LogLevel        *string  `yaml:"log_level"`
	NoUpdateCheck   *bool    `yaml:"no_update_check"`

	// Rules are appended to the built-in catalog.
	Rules []rules.Spec `yaml:"rules"`
}

// Validate checks value ranges. Custom rules are checked by CompileRules.
func (fc FileConfig) Validate() error {
	if fc.MinConfidence != nil && (*fc.MinConfidence < 0 || *fc.MinConfidence > 1) {
		return fmt.Errorf("min_confidence %v outside [0,1]", *fc.MinConfidence)
	}
	if fc.FailOn != nil {
		switch *fc.FailOn {
		case "low", "medium", "high", "none":
		default:
			return fmt.Errorf("fail_on %q: want low, medium, high or none", *fc.FailOn)
		}
	}
	if fc.Threads != nil && *fc.Threads < 0 {
		return fmt.Errorf("threads %d must not be negative", *fc.Threads)
	}
	if fc.MaxBytes != nil && *fc.MaxBytes < 0 {
		return fmt.Errorf("max_bytes %d must not be negative", *fc.MaxBytes)
	}
	return nil
}

// CompileRules returns the built-in catalog extended with the file's custom
// rules, or the built-in catalog itself when there are none.
func (fc FileConfig) CompileRules() (*rules.Catalog, error) {
	if len(fc.Rules) == 0 {
		return rules.Default(), nil
	}
	extra, err := rules.CompileSpecs(fc.Rules)
	if err != nil {
		return nil, err
	}
	return rules.Default().With(extra...)
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FindLocal returns the first local config file present in repoRoot.
func FindLocal(repoRoot string) (string, bool) {
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	if p, ok := FindLocal(repoRoot); ok {
		return LoadFile(p)
	}
	return FileConfig{}, fmt.Errorf("local: %w", ErrNotFound)
}

// GlobalPath returns $XDG_CONFIG_HOME/safetype/config.yml, falling back to
// ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "safetype", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, err
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, fmt.Errorf("global: %w", ErrNotFound)
	}
	return LoadFile(p)
}

// Template is the commented starter file written by `safetype config init`.
const Template = `# SafeType configuration. Command-line flags override these values.

# Comma-separated doublestar globs.
# include: "**/*.go,**/*.env"
# exclude: "testdata/**"

# Skip vendor directories, lockfiles and generated assets.
default_excludes: true

# Files larger than this many bytes are skipped.
max_bytes: 1048576

# Rule IDs (see ` + "`safetype rules`" + `).
# enable: "openai-api-key,aws-access-key"
# disable: "email"

# Drop findings below this confidence.
min_confidence: 0

# Exit with status 1 when a finding at or above this severity is new
# relative to the baseline: low, medium, high or none.
fail_on: medium

# baseline: safetype.baseline.json
# threads: 4
# no_color: false
# log_level: warn

# Extra rules appended after the built-in ones.
# rules:
#   - id: slack-token
#     type: API_KEY
#     pattern: 'xox[baprs]-[0-9A-Za-z-]{10,48}'
#     confidence: 0.9
#     message: Slack token detected.
#     keywords: [slack, token]
`

// WriteTemplate writes Template to path, refusing to overwrite unless force
// is set.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Template), 0o644)
}
