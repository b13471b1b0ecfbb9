package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/filesearch/filesearch/internal/match"
)

// DefaultMaxContentBytes is the largest file, in bytes, whose content is
// loaded for content matching.
const DefaultMaxContentBytes int64 = 0xFFFFF

// DefaultIgnoreFile is the ignore file name the CLI reads from the start
// directory.
const DefaultIgnoreFile = ".filesearchignore"

var (
	ErrPathNotFound   = errors.New("does not exist")
	ErrPathUnreadable = errors.New("exists but cannot be read")
	ErrInvalidPattern = match.ErrInvalidPattern
	ErrInvalidGlob    = errors.New("invalid glob")
	ErrNotConfigured  = errors.New("searcher is not configured")
	ErrRunning        = errors.New("search already in progress")
)

// Config controls a search. It is snapshotted when a run starts, so changing
// the configuration mid-run affects only the next run.
type Config struct {
	StartPath      string
	Pattern        string
	Literal        bool // substring matching instead of regular expressions
	IgnoreCase     bool
	SearchContents bool
	Recurse        bool
	// MaxContentBytes caps content loading; values <= 0 select
	// DefaultMaxContentBytes.
	MaxContentBytes int64
	// Exclude lists doublestar globs; matching entries are skipped entirely.
	Exclude []string
	// IgnoreFile names a gitignore-style file read from the start directory.
	// Empty disables it.
	IgnoreFile string
}

// ConfigError reports a configuration value that prevents a run from starting.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// resolveConfig validates cfg and returns a copy with a canonical start path
// and defaults applied, plus the compiled matcher.
func resolveConfig(cfg Config) (Config, *match.Matcher, error) {
	start, err := resolveStartPath(cfg.StartPath)
	if err != nil {
		return Config{}, nil, err
	}
	m, err := match.New(cfg.Pattern, cfg.Literal, cfg.IgnoreCase)
	if err != nil {
		return Config{}, nil, &ConfigError{Field: "pattern", Value: cfg.Pattern, Err: err}
	}
	for _, g := range cfg.Exclude {
		if !doublestar.ValidatePattern(g) {
			return Config{}, nil, &ConfigError{Field: "exclude", Value: g, Err: ErrInvalidGlob}
		}
	}
	out := cfg
	out.StartPath = start
	if out.MaxContentBytes <= 0 {
		out.MaxContentBytes = DefaultMaxContentBytes
	}
	out.Exclude = append([]string(nil), cfg.Exclude...)
	return out, m, nil
}

func resolveStartPath(p string) (string, error) {
	if p == "" {
		return "", &ConfigError{Field: "start path", Value: p, Err: ErrPathNotFound}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &ConfigError{Field: "start path", Value: p, Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &ConfigError{Field: "start path", Value: p, Err: ErrPathNotFound}
		}
		return "", &ConfigError{Field: "start path", Value: p, Err: fmt.Errorf("%w: %v", ErrPathUnreadable, err)}
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", &ConfigError{Field: "start path", Value: p, Err: fmt.Errorf("%w: %v", ErrPathUnreadable, err)}
	}
	_ = f.Close()
	return canonicalPath(abs), nil
}

// canonicalPath resolves symlinks and relative segments. When resolution
// fails the absolute path is returned.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}
