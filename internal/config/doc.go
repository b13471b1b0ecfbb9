// Package config loads filesearch defaults from local and global YAML files.
// CLI code applies precedence (flags, then local, then global) and maps the
// result into engine configuration.
package config
