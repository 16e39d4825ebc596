package engine

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/safetype/safetype/internal/rules"
	"github.com/safetype/safetype/internal/types"
)

const (
	// contextRadius is the number of characters kept on each side of a match.
	contextRadius = 50
	// assignLookback is how many characters before a match are checked for
	// an assignment operator.
	assignLookback = 10

	keywordBoost    = 0.2
	assignmentBoost = 0.1
)

// reAssignment matches '=' or ':' followed by optional whitespace at the end
// of the lookback slice. The class is the ECMAScript \s set; Go's \s lacks \v
// and all non-ASCII spaces.
var reAssignment = regexp.MustCompile(`[=:][\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]*$`)

// Scanner applies a rule catalog to text. It holds no per-call state and is
// safe for concurrent use.
type Scanner struct {
	catalog *rules.Catalog
}

// New returns a Scanner over catalog. A nil catalog scans nothing.
func New(catalog *rules.Catalog) *Scanner {
	return &Scanner{catalog: catalog}
}

var defaultScanner = New(rules.Default())

// Default returns a Scanner over the built-in catalog.
func Default() *Scanner { return defaultScanner }

// Scan runs the built-in catalog over text.
func Scan(text string) []types.DetectionResult { return defaultScanner.Scan(text) }

// Catalog returns the catalog the scanner evaluates.
func (s *Scanner) Catalog() *rules.Catalog { return s.catalog }

// Scan returns every match of every rule in text, ordered by StartIndex.
// Matches with equal start keep catalog order. Overlapping matches from
// different rules are all reported. The result is never nil.
func (s *Scanner) Scan(text string) []types.DetectionResult {
	out := []types.DetectionResult{}
	if text == "" || s.catalog.Len() == 0 {
		return out
	}
	idx := newRuneIndex(text)
	for _, r := range s.catalog.Rules() {
		for _, loc := range occurrences(r.Pattern, text) {
			out = append(out, evaluate(r, text, idx, loc[0], loc[1]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartIndex < out[j].StartIndex
	})
	return out
}

// occurrences returns the byte spans of all non-overlapping matches, left to
// right. Search progress is local to the call; a rule's pattern carries no
// cursor between calls.
func occurrences(re *regexp.Regexp, text string) [][]int {
	return re.FindAllStringIndex(text, -1)
}

func evaluate(r rules.Rule, text string, idx runeIndex, bs, be int) types.DetectionResult {
	start, end := idx.toRune(bs), idx.toRune(be)

	ctxStart := idx.toByte(max(0, start-contextRadius))
	ctxEnd := idx.toByte(min(idx.len(), end+contextRadius))
	window := text[ctxStart:ctxEnd]

	conf := r.Confidence
	if len(r.Keywords) > 0 && containsAny(strings.ToLower(window), r.Keywords) {
		conf = math.Min(1.0, conf+keywordBoost)
	}
	before := text[idx.toByte(max(0, start-assignLookback)):bs]
	if reAssignment.MatchString(before) {
		conf = math.Min(1.0, conf+assignmentBoost)
	}

	return types.DetectionResult{
		Type:       r.Type,
		Confidence: conf,
		Message:    r.Message,
		Match:      text[bs:be],
		StartIndex: start,
		EndIndex:   end,
		Context:    window,
		Rule:       r.ID,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
