package core

import (
	"context"

	"github.com/safetype/safetype/internal/engine"
	"github.com/safetype/safetype/internal/rules"
	"github.com/safetype/safetype/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	DetectionType   = types.DetectionType
	DetectionResult = types.DetectionResult
	Finding         = types.Finding
	Severity        = types.Severity
	Rule            = rules.Rule
	RuleSpec        = rules.Spec
	Catalog         = rules.Catalog
	Scanner         = engine.Scanner
	Config          = engine.Config
	Result          = engine.Result
)

const (
	TypeEmail       = types.TypeEmail
	TypeAPIKey      = types.TypeAPIKey
	TypePassword    = types.TypePassword
	TypePrivateKey  = types.TypePrivateKey
	TypeJWT         = types.TypeJWT
	TypeCreditCard  = types.TypeCreditCard
	TypePhoneNumber = types.TypePhoneNumber
	TypeUnknown     = types.TypeUnknown
)

// Scan is the stable entrypoint for other programs: it runs the built-in
// rules over text and returns results ordered by StartIndex.
func Scan(text string) []DetectionResult {
	return engine.Scan(text)
}

// DefaultCatalog returns the built-in rules.
func DefaultCatalog() *Catalog { return rules.Default() }

// NewScanner returns a Scanner over the built-in rules followed by extra.
func NewScanner(extra ...Rule) (*Scanner, error) {
	cat, err := rules.Default().With(extra...)
	if err != nil {
		return nil, err
	}
	return engine.New(cat), nil
}

// CompileRule turns a rule spec, as written in a config file, into a Rule.
func CompileRule(s RuleSpec) (Rule, error) { return s.Compile() }

// ScanFiles scans files, directories, stdin or git blobs as described by cfg.
func ScanFiles(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanFiles(ctx, cfg)
}

// RuleIDs returns the built-in rule IDs in catalog order.
func RuleIDs() []string { return rules.Default().IDs() }
