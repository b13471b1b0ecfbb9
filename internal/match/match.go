package match

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned by New when a regex pattern does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// Matcher tests candidates against a pattern.
//
// In regex mode the whole candidate has to match the expression. In literal
// mode a candidate matches when it contains the pattern. The two modes are
// intentionally asymmetric.
type Matcher struct {
	source     string
	pattern    string
	literal    bool
	ignoreCase bool
	re         *regexp.Regexp
}

// New compiles pattern. literal selects substring matching instead of
// regular expressions.
func New(pattern string, literal, ignoreCase bool) (*Matcher, error) {
	m := &Matcher{source: pattern, pattern: pattern, literal: literal, ignoreCase: ignoreCase}
	if literal {
		if ignoreCase {
			m.pattern = strings.ToLower(pattern)
		}
		return m, nil
	}
	// compile the raw pattern first so errors quote what the user typed
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	expr := `^(?:` + pattern + `)$`
	if ignoreCase {
		expr = `(?i)` + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	m.re = re
	return m, nil
}

// Validate reports whether pattern would be accepted by New.
func Validate(pattern string, literal bool) error {
	_, err := New(pattern, literal, false)
	return err
}

// Matches reports whether candidate matches. Empty candidates never match.
func (m *Matcher) Matches(candidate string) bool {
	if candidate == "" {
		return false
	}
	if m.re != nil {
		return m.re.MatchString(candidate)
	}
	if m.ignoreCase {
		candidate = strings.ToLower(candidate)
	}
	return strings.Contains(candidate, m.pattern)
}

// Pattern returns the pattern as supplied to New.
func (m *Matcher) Pattern() string { return m.source }

// Literal reports whether the matcher uses substring matching.
func (m *Matcher) Literal() bool { return m.literal }

// IgnoreCase reports whether matching is case-insensitive.
func (m *Matcher) IgnoreCase() bool { return m.ignoreCase }
