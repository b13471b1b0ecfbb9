package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// excluded reports whether the entry at p is skipped by the ignore file or an
// exclude glob. Globs are tried against the slash path relative to the start
// path and against the bare name, so "node_modules" and "**/*.min.js" both
// work.
func (w *walker) excluded(p, name string, isDir bool) bool {
	if len(w.globs) == 0 && w.ignored.Len() == 0 {
		return false
	}
	rel, err := filepath.Rel(w.cfg.StartPath, p)
	if err != nil {
		rel = p
	}
	rel = filepath.ToSlash(rel)
	if w.ignored.MatchEntry(rel, isDir) {
		return true
	}
	return matchAnyGlob(rel, name, w.globs)
}

func parseGlobs(globs []string) []string {
	var out []string
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		out = append(out, g)
		if t := trimGlobPrefix(g); t != g && t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitGlobs splits a comma-separated glob list, dropping blanks.
func SplitGlobs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(rel, name string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, name); ok {
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
