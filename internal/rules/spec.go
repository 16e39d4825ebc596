package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/safetype/safetype/internal/types"
)

// Spec is the on-disk shape of a custom rule in a config file.
type Spec struct {
	ID         string   `yaml:"id"`
	Type       string   `yaml:"type"`
	Pattern    string   `yaml:"pattern"`
	Confidence float64  `yaml:"confidence"`
	Message    string   `yaml:"message"`
	Keywords   []string `yaml:"keywords,omitempty"`
}

// Compile turns a spec into a Rule. Keywords are lowercased; an empty type
// defaults to UNKNOWN and an empty message to a generic one.
func (s Spec) Compile() (Rule, error) {
	if s.ID == "" {
		return Rule{}, errors.New("rule: id is required")
	}
	if s.Pattern == "" {
		return Rule{}, fmt.Errorf("rule %s: pattern is required", s.ID)
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: invalid pattern: %w", s.ID, err)
	}
	typ := types.TypeUnknown
	if s.Type != "" {
		if typ, err = types.ParseDetectionType(s.Type); err != nil {
			return Rule{}, fmt.Errorf("rule %s: %w", s.ID, err)
		}
	}
	msg := s.Message
	if msg == "" {
		msg = fmt.Sprintf("Match for custom rule %s.", s.ID)
	}
	var kws []string
	for _, kw := range s.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			kws = append(kws, kw)
		}
	}
	r := Rule{
		ID:         s.ID,
		Type:       typ,
		Pattern:    re,
		Confidence: s.Confidence,
		Message:    msg,
		Keywords:   kws,
	}
	if err := validate(r); err != nil {
		return Rule{}, fmt.Errorf("rule %s: %w", s.ID, err)
	}
	return r, nil
}

// CompileSpecs compiles specs in order, stopping at the first error.
func CompileSpecs(specs []Spec) ([]Rule, error) {
	out := make([]Rule, 0, len(specs))
	for _, s := range specs {
		r, err := s.Compile()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
