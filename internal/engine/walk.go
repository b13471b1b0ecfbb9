package engine

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/filesearch/filesearch/internal/ignore"
	"github.com/filesearch/filesearch/internal/match"
)

// walker carries the state of a single run through the recursion. The
// visited set lives and dies with it.
type walker struct {
	ctx     context.Context
	s       *Searcher
	cfg     Config
	matcher *match.Matcher
	globs   []string
	ignored ignore.Matcher
	visited map[string]struct{}
	runID   string
}

func newWalker(ctx context.Context, s *Searcher, cfg Config, m *match.Matcher) *walker {
	w := &walker{
		ctx:     ctx,
		s:       s,
		cfg:     cfg,
		matcher: m,
		globs:   parseGlobs(cfg.Exclude),
		visited: make(map[string]struct{}),
	}
	if fi, err := os.Stat(cfg.StartPath); cfg.IgnoreFile != "" && err == nil && fi.IsDir() {
		ign, err := ignore.Load(filepath.Join(cfg.StartPath, cfg.IgnoreFile))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warnf("ignore file: %v", err)
		}
		w.ignored = ign
	}
	return w
}

func (w *walker) stopped() bool {
	return w.ctx.Err() != nil
}

// traverse visits dir in pre-order. Directories already visited in this run
// are skipped without being counted, which breaks symlink cycles.
func (w *walker) traverse(dir string) {
	canon, ok := w.enter(dir)
	if !ok {
		return
	}
	entries, err := os.ReadDir(canon)
	if err != nil {
		w.s.log.Debugf("listing %s: %v", canon, err)
	}
	for _, entry := range entries {
		if w.stopped() {
			return
		}
		w.visit(canon, entry)
	}
}

// enter marks dir visited and publishes progress. It returns false when dir
// is not a directory or was seen before.
func (w *walker) enter(dir string) (string, bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	canon := canonicalPath(dir)
	if _, seen := w.visited[canon]; seen {
		return "", false
	}
	w.visited[canon] = struct{}{}
	w.s.dirs.Add(1)
	w.s.observers.publish(w.s.snapshot(EventProgress, w.runID))
	return canon, true
}

func (w *walker) visit(parent string, entry fs.DirEntry) {
	name := entry.Name()
	p := filepath.Join(parent, name)
	if w.excluded(p, name, entry.IsDir()) {
		return
	}

	info, statErr := statEntry(p, entry)
	if statErr == nil && info.IsDir() {
		canon := canonicalPath(p)
		if !w.cfg.SearchContents && w.matcher.Matches(name) {
			w.addMatch(canon)
		}
		if w.cfg.Recurse {
			w.traverse(canon)
		}
		return
	}

	w.s.files.Add(1)
	if !w.cfg.SearchContents {
		if w.matcher.Matches(name) {
			w.addMatch(canonicalPath(p))
		}
		return
	}
	content, err := w.loadContent(p, info, statErr)
	if err != nil {
		// unreadable files are reported rather than dropped
		w.s.log.Debugf("reading %s: %v", p, err)
		w.addMatch(canonicalPath(p))
		return
	}
	if w.matcher.Matches(content) {
		w.addMatch(canonicalPath(p))
	}
}

// statEntry follows symlinks so a link to a directory is treated as one.
// Plain entries reuse the information from the directory listing.
func statEntry(p string, entry fs.DirEntry) (fs.FileInfo, error) {
	if entry.Type()&fs.ModeSymlink != 0 {
		return os.Stat(p)
	}
	return entry.Info()
}

// loadContent returns the file's text. Files above the size cap and
// non-regular files yield empty content, which never matches.
func (w *walker) loadContent(p string, info fs.FileInfo, statErr error) (string, error) {
	if statErr != nil {
		return "", statErr
	}
	if !info.Mode().IsRegular() {
		return "", nil
	}
	limit := w.cfg.MaxContentBytes
	if info.Size() > limit {
		return "", nil
	}
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()
	// the file may have grown since it was listed
	b, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > limit {
		return "", nil
	}
	return string(b), nil
}

func (w *walker) addMatch(p string) {
	w.s.sink.Add(p)
	e := w.s.snapshot(EventMatch, w.runID)
	e.Path = p
	w.s.observers.publish(e)
}
