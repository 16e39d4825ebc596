package types

import (
	"fmt"
	"strings"
)

// DetectionType is the closed set of sensitive value kinds a rule can report.
type DetectionType string

const (
	TypeEmail       DetectionType = "EMAIL"
	TypeAPIKey      DetectionType = "API_KEY"
	TypePassword    DetectionType = "PASSWORD"
	TypePrivateKey  DetectionType = "PRIVATE_KEY"
	TypeJWT         DetectionType = "JWT"
	TypeCreditCard  DetectionType = "CREDIT_CARD"
	TypePhoneNumber DetectionType = "PHONE_NUMBER"
	TypeUnknown     DetectionType = "UNKNOWN"
)

// DetectionTypes returns every known type in declaration order.
func DetectionTypes() []DetectionType {
	return []DetectionType{
		TypeEmail, TypeAPIKey, TypePassword, TypePrivateKey,
		TypeJWT, TypeCreditCard, TypePhoneNumber, TypeUnknown,
	}
}

// Valid reports whether t belongs to the enumeration.
func (t DetectionType) Valid() bool {
	for _, k := range DetectionTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// ParseDetectionType accepts the canonical spelling in any case, with '-'
// allowed in place of '_'.
func ParseDetectionType(s string) (DetectionType, error) {
	t := DetectionType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !t.Valid() {
		return "", fmt.Errorf("unknown detection type %q", s)
	}
	return t, nil
}

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevLow  Severity = "low"
	SevMed  Severity = "medium"
	SevHigh Severity = "high"
)

// Severity maps a detection type onto the risk level used by fail-on
// thresholds and SARIF levels.
func (t DetectionType) Severity() Severity {
	switch t {
	case TypePrivateKey, TypeAPIKey, TypePassword, TypeCreditCard:
		return SevHigh
	case TypeJWT:
		return SevMed
	default:
		return SevLow
	}
}

// DetectionResult is one match of one rule in a scanned text. Offsets are
// half-open character (code point) offsets into that text.
type DetectionResult struct {
	Type       DetectionType `json:"type"`
	Confidence float64       `json:"confidence"`
	Message    string        `json:"message"`
	Match      string        `json:"match"`
	StartIndex int           `json:"startIndex"`
	EndIndex   int           `json:"endIndex"`
	Context    string        `json:"context,omitempty"`
	Rule       string        `json:"rule"`
}

// Severity is shorthand for r.Type.Severity().
func (r DetectionResult) Severity() Severity { return r.Type.Severity() }

// Finding is a DetectionResult located in a file. Line and Column are
// 1-based; Column counts characters from the start of the line. Commit is set
// for findings taken from git history.
type Finding struct {
	Path   string `json:"path"`
	Commit string `json:"commit,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
	DetectionResult
}
