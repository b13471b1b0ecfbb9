package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/filesearch/filesearch/internal/results"
	"github.com/stretchr/testify/require"
)

// tempRoot returns a canonical temporary directory so expected paths line
// up with what the engine reports on systems where /tmp is a symlink.
func tempRoot(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func mustWrite(t *testing.T, root, name, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func mustMkdir(t *testing.T, root, name string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(p, 0o755))
	return p
}

func mustSymlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
}

func newSearcher(t *testing.T, cfg Config) (*Searcher, *results.List) {
	t.Helper()
	list := results.NewList()
	s := New(list)
	require.NoError(t, s.Configure(cfg))
	return s, list
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.all() {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) matches() []string {
	var out []string
	for _, e := range r.all() {
		if e.Kind == EventMatch {
			out = append(out, e.Path)
		}
	}
	return out
}
