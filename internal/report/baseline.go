package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/safetype/safetype/internal/types"
)

// DefaultBaselineFile is the baseline path used when none is configured.
const DefaultBaselineFile = "safetype.baseline.json"

// Baseline is a set of accepted findings keyed by Fingerprint. Matches are
// never stored in clear.
type Baseline struct {
	Version int             `json:"version"`
	Items   map[string]bool `json:"items"`
}

// Fingerprint identifies a finding independently of its position in the file
// so baselines survive unrelated edits.
func Fingerprint(f types.Finding) string {
	h := xxhash.New()
	_, _ = h.WriteString(f.Path)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(f.Rule)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(f.Match)
	return fmt.Sprintf("%016x", h.Sum64())
}

// LoadBaseline reads path. A missing file is an empty baseline and no error.
func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Version: 1, Items: map[string]bool{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return b, nil
		}
		return b, err
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{Version: 1, Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

// SaveBaseline writes the fingerprints of findings to path.
func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Version: 1, Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[Fingerprint(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(buf, '\n'), 0644)
}

// FilterNewFindings drops findings already present in base.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[Fingerprint(f)] {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of accepted fingerprints.
func (b Baseline) Len() int { return len(b.Items) }

// Keys returns fingerprints in sorted order.
func (b Baseline) Keys() []string {
	keys := make([]string, 0, len(b.Items))
	for k := range b.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var severityRank = map[types.Severity]int{types.SevLow: 1, types.SevMed: 2, types.SevHigh: 3}

// ParseFailOn validates a fail-on threshold. "none" disables failing.
func ParseFailOn(s string) (string, error) {
	switch s {
	case "low", "medium", "high", "none":
		return s, nil
	case "":
		return "medium", nil
	}
	return "", fmt.Errorf("invalid fail-on %s: want low, medium, high or none", strconv.Quote(s))
}

// ShouldFail reports whether any finding reaches the failOn severity. An
// unknown threshold is treated as medium; "none" never fails.
func ShouldFail(findings []types.Finding, failOn string) bool {
	if failOn == "none" {
		return false
	}
	th := severityRank[types.Severity(failOn)]
	if th == 0 {
		th = severityRank[types.SevMed]
	}
	for _, f := range findings {
		if severityRank[f.Severity()] >= th {
			return true
		}
	}
	return false
}
