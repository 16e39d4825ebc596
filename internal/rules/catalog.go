package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/safetype/safetype/internal/types"
)

// Rule describes one detectable secret shape.
type Rule struct {
	ID         string
	Type       types.DetectionType
	Pattern    *regexp.Regexp
	Confidence float64
	Message    string
	// Keywords are lowercase context words that raise confidence when they
	// appear near a match. Nil when the shape alone is decisive.
	Keywords []string
}

// Catalog is an ordered, immutable list of rules. The zero value is an empty
// catalog. A *Catalog is safe for concurrent use.
type Catalog struct {
	rules []Rule
	index map[string]int
}

// New validates rules and returns a catalog holding copies of them in order.
func New(rules ...Rule) (*Catalog, error) {
	c := &Catalog{
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for i, r := range rules {
		if err := validate(r); err != nil {
			if r.ID == "" {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("rule %s: duplicate id", r.ID)
		}
		if r.Keywords != nil {
			r.Keywords = append([]string(nil), r.Keywords...)
		}
		c.index[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// MustNew is like New but panics on an invalid rule. It is meant for tables
// built at package init, where a bad pattern must stop the process.
func MustNew(rules ...Rule) *Catalog {
	c, err := New(rules...)
	if err != nil {
		panic("rules: " + err.Error())
	}
	return c
}

func validate(r Rule) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("id is required")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown type %q", r.Type)
	}
	if r.Pattern == nil {
		return errors.New("pattern is required")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]", r.Confidence)
	}
	if r.Message == "" {
		return errors.New("message is required")
	}
	for _, kw := range r.Keywords {
		if kw == "" {
			return errors.New("empty keyword")
		}
		if kw != strings.ToLower(kw) {
			return fmt.Errorf("keyword %q must be lowercase", kw)
		}
	}
	return nil
}

// With returns a new catalog with extra rules appended after the existing
// ones. The receiver is left untouched.
func (c *Catalog) With(extra ...Rule) (*Catalog, error) {
	all := make([]Rule, 0, c.Len()+len(extra))
	all = append(all, c.Rules()...)
	all = append(all, extra...)
	return New(all...)
}

// Filter returns a catalog restricted to the enable list (when non-empty)
// minus the disable list. Unknown IDs are ignored.
func (c *Catalog) Filter(enable, disable []string) *Catalog {
	if len(enable) == 0 && len(disable) == 0 {
		return c
	}
	allowed := toSet(enable)
	blocked := toSet(disable)
	out := &Catalog{index: map[string]int{}}
	for _, r := range c.Rules() {
		if len(allowed) > 0 && !allowed[r.ID] {
			continue
		}
		if blocked[r.ID] {
			continue
		}
		out.index[r.ID] = len(out.rules)
		out.rules = append(out.rules, r)
	}
	return out
}

// Rules returns a copy of the rules in catalog order.
func (c *Catalog) Rules() []Rule {
	if c == nil {
		return nil
	}
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Get looks a rule up by ID.
func (c *Catalog) Get(id string) (Rule, bool) {
	if c == nil {
		return Rule{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// IDs returns rule IDs in catalog order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.rules))
	for i, r := range c.rules {
		ids[i] = r.ID
	}
	return ids
}

// SplitIDs parses a comma-separated ID list as used by --enable/--disable.
func SplitIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[strings.TrimSpace(id)] = true
	}
	return m
}
