package filesearch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/filesearch/filesearch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit_WritesFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), ".filesearch.yml")
	stdout, _, err := execCLI(t, "config", "init", "--output", out, "-r", "--exclude", "vendor/**")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)

	cfg, err := config.LoadFile(out)
	require.NoError(t, err)
	require.NotNil(t, cfg.Recurse)
	assert.True(t, *cfg.Recurse)
	require.NotNil(t, cfg.Exclude)
	assert.Equal(t, "vendor/**", *cfg.Exclude)
	assert.Nil(t, cfg.Contents)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "filesearch.yml")
	require.NoError(t, os.WriteFile(out, []byte("recurse: false\n"), 0o644))

	_, _, err := execCLI(t, "config", "init", "--output", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execCLI(t, "config", "init", "--output", out, "--force", "-c")
	require.NoError(t, err)
	cfg, err := config.LoadFile(out)
	require.NoError(t, err)
	assert.Nil(t, cfg.Recurse)
	require.NotNil(t, cfg.Contents)
}

func TestConfigShow_Sources(t *testing.T) {
	root := fixtureTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".filesearch.yml"), []byte("ignore_case: true\n"), 0o644))

	stdout, _, err := execCLI(t, "config", "show", "-r", root)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(root, ".filesearch.yml"))
	assert.Regexp(t, `recurse\s+│?\|?\s*true\s+│?\|?\s*flag`, stdout)
	assert.Regexp(t, `ignore_case\s+│?\|?\s*true\s+│?\|?\s*local`, stdout)
	assert.Regexp(t, `max_content_bytes\s+│?\|?\s*1048575\s+│?\|?\s*default`, stdout)
}
