package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RecursiveNameSearch(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "alpha")
	mustWrite(t, root, "sub/b.txt", "beta")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*\.txt`, Recurse: true})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub", "b.txt"),
	}, list.Snapshot())
	assert.EqualValues(t, 2, s.FileCount())
	assert.EqualValues(t, 2, s.DirCount())
	assert.Equal(t, 2, s.MatchCount())
}

func TestRun_NoRecurse(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "alpha")
	mustWrite(t, root, "sub/b.txt", "beta")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*\.txt`})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, list.Snapshot())
	assert.EqualValues(t, 1, s.FileCount())
	assert.EqualValues(t, 1, s.DirCount())
}

func TestRun_RegexNeedsFullName(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "foo", "")
	mustWrite(t, root, "foobar", "")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: "foo"})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{filepath.Join(root, "foo")}, list.Snapshot())
	assert.EqualValues(t, 2, s.FileCount())
}

func TestRun_LiteralIgnoreCaseContains(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "FOOBAR.md", "")
	mustWrite(t, root, "other.md", "")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: "foo", Literal: true, IgnoreCase: true})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{filepath.Join(root, "FOOBAR.md")}, list.Snapshot())
}

func TestRun_DirectoryNamesMatchIndependentlyOfRecursion(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "logs/logs", "")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: "logs", Recurse: true})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "logs", "logs"),
	}, list.Snapshot())
	assert.EqualValues(t, 1, s.FileCount())
	assert.EqualValues(t, 2, s.DirCount())
}

func TestRun_ContentSearch(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "hello\nworld\n")
	mustWrite(t, root, "b.txt", "goodbye\n")
	mustMkdir(t, root, "world")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `(?s).*world.*`, SearchContents: true, Recurse: true})
	require.NoError(t, s.Run(context.Background(), false))

	// directory names are never tested in content mode
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, list.Snapshot())
	assert.EqualValues(t, 2, s.FileCount())
	assert.EqualValues(t, 2, s.DirCount())
}

func TestRun_ContentSearchRequiresWholeContent(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "needle in a haystack")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: "needle", SearchContents: true})
	require.NoError(t, s.Run(context.Background(), false))
	assert.Empty(t, list.Snapshot())

	require.NoError(t, s.Configure(Config{StartPath: root, Pattern: "needle", Literal: true, SearchContents: true}))
	require.NoError(t, s.Run(context.Background(), false))
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, list.Snapshot())
}

func TestRun_MaxContentBytes(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "exact.txt", "needle")
	mustWrite(t, root, "large.txt", "needle"+string(make([]byte, 20)))
	mustWrite(t, root, "small.txt", "need")

	s, list := newSearcher(t, Config{
		StartPath:       root,
		Pattern:         "need",
		Literal:         true,
		SearchContents:  true,
		MaxContentBytes: 6,
	})
	require.NoError(t, s.Run(context.Background(), false))

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "exact.txt"),
		filepath.Join(root, "small.txt"),
	}, list.Snapshot())
	assert.EqualValues(t, 3, s.FileCount(), "oversized files are still counted")
}

func TestRun_DefaultMaxContentBytes(t *testing.T) {
	root := tempRoot(t)
	s, _ := newSearcher(t, Config{StartPath: root, Pattern: "x"})
	assert.Equal(t, DefaultMaxContentBytes, s.Config().MaxContentBytes)
	assert.EqualValues(t, 1048575, DefaultMaxContentBytes)
}

func TestRun_UnreadableFileIsReportedInContentMode(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "ok.txt", "nothing here")
	dangling := filepath.Join(root, "dangling")
	mustSymlink(t, filepath.Join(root, "missing-target"), dangling)

	s, list := newSearcher(t, Config{StartPath: root, Pattern: "zzz", SearchContents: true})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{dangling}, list.Snapshot())
	assert.EqualValues(t, 2, s.FileCount())
}

func TestRun_PermissionDeniedFileIsReported(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	root := tempRoot(t)
	locked := mustWrite(t, root, "locked.txt", "secret")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	s, list := newSearcher(t, Config{StartPath: root, Pattern: "nomatch", SearchContents: true})
	require.NoError(t, s.Run(context.Background(), false))
	assert.Equal(t, []string{locked}, list.Snapshot())
}

func TestRun_UnreadableDirectoryIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := tempRoot(t)
	mustWrite(t, root, "locked/inner.txt", "")
	mustWrite(t, root, "open/inner.txt", "")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*\.txt`, Recurse: true})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{filepath.Join(root, "open", "inner.txt")}, list.Snapshot())
	assert.EqualValues(t, 3, s.DirCount(), "the locked directory is entered but cannot be listed")
}

func TestRun_SymlinkCycleTerminates(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "")
	sub := mustMkdir(t, root, "sub")
	mustSymlink(t, root, filepath.Join(sub, "back"))
	mustSymlink(t, sub, filepath.Join(sub, "self"))

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*\.txt`, Recurse: true})
	rec := &recorder{}
	s.Subscribe(rec)
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, list.Snapshot())
	assert.EqualValues(t, 2, s.DirCount())
	assert.Equal(t, 2, rec.count(EventProgress), "one progress event per canonical directory")
}

func TestRun_SymlinkedDirectoryReportedByCanonicalPath(t *testing.T) {
	root := tempRoot(t)
	other := tempRoot(t)
	mustWrite(t, other, "target.txt", "")
	mustSymlink(t, other, filepath.Join(root, "link"))

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*\.txt`, Recurse: true})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{filepath.Join(other, "target.txt")}, list.Snapshot())
}

func TestRun_ExcludeGlobs(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "")
	mustWrite(t, root, "node_modules/x.txt", "")
	mustWrite(t, root, "sub/b.min.js", "")

	s, list := newSearcher(t, Config{
		StartPath: root,
		Pattern:   ".*",
		Recurse:   true,
		Exclude:   []string{"node_modules", "**/*.min.js"},
	})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
	}, list.Snapshot())
	assert.EqualValues(t, 1, s.FileCount())
	assert.EqualValues(t, 2, s.DirCount())
}

func TestRun_StartPathIsFile(t *testing.T) {
	root := tempRoot(t)
	file := mustWrite(t, root, "only.txt", "")

	s, list := newSearcher(t, Config{StartPath: file, Pattern: ".*"})
	rec := &recorder{}
	s.Subscribe(rec)
	require.NoError(t, s.Run(context.Background(), false))

	assert.Empty(t, list.Snapshot())
	assert.EqualValues(t, 0, s.DirCount())
	assert.Equal(t, 1, rec.count(EventStop))
}

func TestRun_Idempotent(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "")
	mustWrite(t, root, "sub/b.txt", "")
	mustWrite(t, root, "sub/deeper/c.txt", "")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*\.txt`, Recurse: true})
	require.NoError(t, s.Run(context.Background(), false))
	first := list.Snapshot()
	files, dirs := s.FileCount(), s.DirCount()

	require.NoError(t, s.Run(context.Background(), false))
	assert.Equal(t, first, list.Snapshot())
	assert.Equal(t, files, s.FileCount())
	assert.Equal(t, dirs, s.DirCount())
	assert.Len(t, first, 3)
}

func TestLoadContent_NonRegularIsEmpty(t *testing.T) {
	root := tempRoot(t)
	w := &walker{cfg: Config{MaxContentBytes: 10}}
	info, err := os.Stat(root)
	require.NoError(t, err)
	content, err := w.loadContent(root, info, nil)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestRun_IgnoreFile(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, ".filesearchignore", "build/\n*.log\n")
	mustWrite(t, root, "a.txt", "")
	mustWrite(t, root, "debug.log", "")
	mustWrite(t, root, "build/out.txt", "")
	mustWrite(t, root, "src/build", "")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `[^.].*`, Recurse: true, IgnoreFile: ".filesearchignore"})
	require.NoError(t, s.Run(context.Background(), false))

	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "src"),
		filepath.Join(root, "src", "build"),
	}, list.Snapshot())
}

func TestRun_MissingIgnoreFileIsFine(t *testing.T) {
	root := tempRoot(t)
	mustWrite(t, root, "a.txt", "")

	s, list := newSearcher(t, Config{StartPath: root, Pattern: `.*`, IgnoreFile: ".filesearchignore"})
	require.NoError(t, s.Run(context.Background(), false))
	assert.Equal(t, 1, list.Size())
}
