package ignore

import (
	"bufio"
	"io"
	"os"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

type pattern struct {
	glob     string
	dirOnly  bool
	negate   bool
	anchored bool
}

// Matcher reports whether slash-separated paths relative to the ignore file's
// directory are ignored. The zero value ignores nothing.
type Matcher struct {
	patterns []pattern
}

// Load reads the ignore file at path. A missing file yields an empty matcher
// and the open error.
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads patterns from r. Lines that are not valid globs are dropped.
func Parse(r io.Reader) (Matcher, error) {
	var m Matcher
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var p pattern
		if strings.HasPrefix(line, "!") {
			p.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimRight(line, "/")
		}
		if strings.Contains(line, "/") {
			p.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		if line == "" || !doublestar.ValidatePattern(line) {
			continue
		}
		p.glob = line
		m.patterns = append(m.patterns, p)
	}
	return m, sc.Err()
}

// Len returns the number of patterns.
func (m Matcher) Len() int { return len(m.patterns) }

// Match reports whether the file at rel, or any directory above it, is
// ignored.
func (m Matcher) Match(rel string) bool { return m.MatchEntry(rel, false) }

// MatchEntry is Match for an entry that may itself be a directory.
func (m Matcher) MatchEntry(rel string, isDir bool) bool {
	if len(m.patterns) == 0 {
		return false
	}
	rel = strings.Trim(rel, "/")
	ignored := false
	for _, p := range m.patterns {
		if p.matches(rel, isDir) {
			ignored = !p.negate
		}
	}
	return ignored
}

func (p pattern) matches(rel string, isDir bool) bool {
	segs := strings.Split(rel, "/")
	for i := range segs {
		last := i == len(segs)-1
		if p.dirOnly && last && !isDir {
			continue
		}
		if p.anchored {
			if ok, _ := doublestar.Match(p.glob, strings.Join(segs[:i+1], "/")); ok {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p.glob, segs[i]); ok {
			return true
		}
	}
	return false
}
