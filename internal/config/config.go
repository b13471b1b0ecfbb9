package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when no configuration file exists at the searched
// locations.
var ErrNoConfig = errors.New("no config file")

// LocalNames are the file names looked up in the search directory, in order.
var LocalNames = []string{".filesearch.yml", ".filesearch.yaml", "filesearch.yml", "filesearch.yaml"}

// FileConfig is the on-disk YAML configuration. Nil fields are unset and
// fall through to the next source.
type FileConfig struct {
	Recurse         *bool   `yaml:"recurse,omitempty"`
	Contents        *bool   `yaml:"contents,omitempty"`
	IgnoreCase      *bool   `yaml:"ignore_case,omitempty"`
	Literal         *bool   `yaml:"literal,omitempty"`
	MaxContentBytes *int64  `yaml:"max_content_bytes,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"` // comma-separated globs
	LogLevel        *string `yaml:"log_level,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal looks for a config file in dir, trying LocalNames in order.
func LoadLocal(dir string) (FileConfig, error) {
	if p := FindLocal(dir); p != "" {
		return LoadFile(p)
	}
	return FileConfig{}, ErrNoConfig
}

// FindLocal returns the path of the first local config file in dir, or "".
func FindLocal(dir string) string {
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// GlobalPath returns the global config location under $XDG_CONFIG_HOME or
// ~/.config. It returns "" when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "filesearch", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, ErrNoConfig
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNoConfig
	}
	return LoadFile(p)
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg FileConfig) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}
