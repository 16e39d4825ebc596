// Package ignore implements .safetypeignore, a gitignore-style list of paths
// that file scans skip. Patterns are translated to doublestar globs.
package ignore

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up in the scan root.
const FileName = ".safetypeignore"

type rule struct {
	globs  []string
	negate bool
}

// Matcher reports whether a slash-separated relative path is ignored. The
// zero value ignores nothing.
type Matcher struct {
	rules []rule
}

// Load reads an ignore file. A missing file yields an empty matcher.
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Matcher{}, nil
		}
		return Matcher{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads patterns one per line. Blank lines and '#' comments are
// skipped; a leading '!' re-includes paths matched by earlier lines.
func Parse(r io.Reader) (Matcher, error) {
	var m Matcher
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var rl rule
		if strings.HasPrefix(line, "!") {
			rl.negate = true
			line = line[1:]
		}
		rl.globs = toGlobs(line)
		if len(rl.globs) > 0 {
			m.rules = append(m.rules, rl)
		}
	}
	return m, sc.Err()
}

// New builds a matcher from patterns given in ignore-file syntax.
func New(patterns ...string) Matcher {
	m, _ := Parse(strings.NewReader(strings.Join(patterns, "\n")))
	return m
}

// toGlobs converts one gitignore line. A pattern without an inner slash
// matches at any depth; a trailing slash restricts it to directories, which
// here means "anything below".
func toGlobs(p string) []string {
	dirOnly := strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")
	anchored := strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	if !anchored && !strings.HasPrefix(p, "**/") {
		p = "**/" + p
	}
	globs := []string{p + "/**"}
	if !dirOnly {
		globs = append(globs, p)
	}
	var out []string
	for _, g := range globs {
		if doublestar.ValidatePattern(g) {
			out = append(out, g)
		}
	}
	return out
}

// Match reports whether rel is ignored. The last matching line wins.
func (m Matcher) Match(rel string) bool {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	ignored := false
	for _, r := range m.rules {
		for _, g := range r.globs {
			if ok, _ := doublestar.Match(g, rel); ok {
				ignored = !r.negate
				break
			}
		}
	}
	return ignored
}

// Len returns the number of patterns loaded.
func (m Matcher) Len() int { return len(m.rules) }
