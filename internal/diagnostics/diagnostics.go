// Package diagnostics turns scan results into editor diagnostics: ranges in
// line/character form, warning severity and a SafeType-labelled message. The
// JSON shape follows the Language Server Protocol.
package diagnostics

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/safetype/safetype/internal/types"
)

// Source is the label editors show next to each diagnostic.
const Source = "SafeType"

// Severity uses the LSP numbering.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Position is zero-based. Character counts code points from line start.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is half-open.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is one editor marker.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Document groups the diagnostics published for one URI.
type Document struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// LineIndex maps character offsets to positions. Lines end at '\n'; a '\r'
// before it is counted as part of the line.
type LineIndex struct {
	starts []int // character offset of each line start
	n      int
}

// NewLineIndex indexes text once for repeated lookups.
func NewLineIndex(text string) *LineIndex {
	x := &LineIndex{starts: []int{0}}
	i := 0
	for _, r := range text {
		i++
		if r == '\n' {
			x.starts = append(x.starts, i)
		}
	}
	x.n = i
	return x
}

// Lines returns the number of lines; text without a newline has one.
func (x *LineIndex) Lines() int { return len(x.starts) }

// Position converts a character offset. Offsets are clamped to [0, len].
func (x *LineIndex) Position(offset int) Position {
	offset = max(0, min(offset, x.n))
	line := sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > offset }) - 1
	return Position{Line: line, Character: offset - x.starts[line]}
}

// Message formats the text shown for one result.
func Message(r types.DetectionResult) string {
	return fmt.Sprintf("[%s] %s (%s)", Source, r.Message, r.Type)
}

// FromResults converts results over text into warning diagnostics, in result
// order. The slice is never nil.
func FromResults(text string, results []types.DetectionResult) []Diagnostic {
	out := make([]Diagnostic, 0, len(results))
	if len(results) == 0 {
		return out
	}
	idx := NewLineIndex(text)
	for _, r := range results {
		out = append(out, Diagnostic{
			Range: Range{
				Start: idx.Position(r.StartIndex),
				End:   idx.Position(r.EndIndex),
			},
			Severity: SeverityWarning,
			Source:   Source,
			Code:     string(r.Type),
			Message:  Message(r),
		})
	}
	return out
}

// ShouldScan reports whether a document is worth scanning. Virtual git
// documents and output panels are skipped.
func ShouldScan(uri string) bool {
	scheme := ""
	if i := strings.Index(uri, ":"); i > 1 {
		scheme = strings.ToLower(uri[:i])
	}
	return scheme != "git" && scheme != "output"
}

// FileURI builds a file:// URI for a local path.
func FileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
