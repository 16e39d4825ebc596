package engine

import (
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	"target":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"coverage":     true,
	".next":        true,
	".turbo":       true,
}

// suffixes treated as generated or non-text when default excludes are on
var defaultExcludeFileSuffixes = []string{
	".min.js", ".min.css", ".map",
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".svg",
	".pdf", ".zip", ".gz", ".tar", ".tgz", ".7z",
	".jar", ".class", ".exe", ".dll", ".so", ".dylib",
	".wasm", ".pyc",
	".pb.go",
}

var defaultExcludeFileNames = map[string]bool{
	"yarn.lock":         true,
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"go.sum":            true,
	"composer.lock":     true,
	"poetry.lock":       true,
	".ds_store":         true,
	// baselines list accepted matches verbatim
	"safetype.baseline.json": true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	if strings.HasSuffix(lowerRel, ".lock") {
		return true
	}
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return defaultExcludeFileNames[path.Base(lowerRel)]
}

// allowedByGlobs reports whether relPath passes the include/exclude globs.
// Include globs, when given, act as a positive filter; exclude globs are
// subtracted last. A glob also matches against the base name.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	if includes := parseGlobsList(cfg.IncludeGlobs); len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if excludes := parseGlobsList(cfg.ExcludeGlobs); len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(p string, globs []string) bool {
	base := path.Base(p)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, p); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
