package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/filesearch/filesearch/internal/logger"
	"github.com/filesearch/filesearch/internal/match"
	"github.com/filesearch/filesearch/internal/results"
	"github.com/google/uuid"
)

// ResultSink is the ordered store matches are appended to. The engine only
// calls Add and Clear while searching.
type ResultSink interface {
	Add(path string)
	Get(i int) string
	Size() int
	Clear()
}

// Option customises a Searcher.
type Option func(*Searcher)

// WithLogger routes engine diagnostics to l.
func WithLogger(l logger.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.log = l
		}
	}
}

// Searcher runs at most one search at a time over a configured tree.
type Searcher struct {
	sink      ResultSink
	log       logger.Logger
	observers observerList

	mu         sync.Mutex
	cfg        Config
	matcher    *match.Matcher
	configured bool
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
	runID      string

	files         atomic.Int64
	dirs          atomic.Int64
	stopRequested atomic.Bool
}

// New returns a Searcher writing matches to sink. A nil sink selects an
// in-memory results.List.
func New(sink ResultSink, opts ...Option) *Searcher {
	if sink == nil {
		sink = results.NewList()
	}
	s := &Searcher{sink: sink, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.observers.log = s.log
	return s
}

// Configure validates cfg and makes it the configuration for the next run.
// On error the previous configuration is kept. The returned error is a
// *ConfigError.
func (s *Searcher) Configure(cfg Config) error {
	resolved, m, err := resolveConfig(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = resolved
	s.matcher = m
	s.configured = true
	s.mu.Unlock()
	return nil
}

// Config returns the current configuration with the canonical start path.
func (s *Searcher) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Run clears previous results and walks the configured tree. With background
// set the walk runs on its own goroutine and Run returns immediately; use
// Wait or the stop event to learn when it ends. Otherwise Run returns after
// the stop event has been published.
//
// Cancelling ctx has the same effect as RequestStop.
func (s *Searcher) Run(ctx context.Context, background bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if !s.configured {
		s.mu.Unlock()
		return ErrNotConfigured
	}
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	w := newWalker(runCtx, s, s.cfg, s.matcher)
	done := make(chan struct{})
	s.running = true
	s.cancel = cancel
	s.done = done
	s.runID = uuid.NewString()
	w.runID = s.runID
	s.stopRequested.Store(false)
	s.mu.Unlock()

	s.Clear()

	if background {
		go s.execute(w, cancel, done)
		return nil
	}
	s.execute(w, cancel, done)
	return nil
}

func (s *Searcher) execute(w *walker, cancel context.CancelFunc, done chan struct{}) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("search aborted: %v", r)
		}
		stopped := w.stopped()
		cancel()
		e := s.snapshot(EventStop, w.runID)
		e.Stopped = stopped
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.mu.Unlock()
		s.stopRequested.Store(false)

		s.log.Debugf("search finished in %s: %d matches, %d files, %d directories",
			time.Since(started).Round(time.Millisecond), e.Matches, e.Files, e.Dirs)
		s.observers.publish(e)
		close(done)
	}()

	s.log.Debugf("searching %s for %q (contents=%t recurse=%t)",
		w.cfg.StartPath, w.cfg.Pattern, w.cfg.SearchContents, w.cfg.Recurse)
	w.traverse(w.cfg.StartPath)
}

// RequestStop asks the current run to end. The walk notices at the next
// directory entry; the entry being processed is allowed to finish. It never
// blocks and is a no-op when nothing is running.
func (s *Searcher) RequestStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stopRequested.Store(true)
	if s.cancel != nil {
		s.cancel()
	}
}

// Stop requests a stop and waits for the run to end. It must not be called
// from an observer.
func (s *Searcher) Stop() {
	s.RequestStop()
	s.Wait()
}

// Wait blocks until the current or most recent run has published its stop
// event. It returns immediately when no run was ever started.
func (s *Searcher) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Subscribe registers o for events and returns a function that removes it.
// It is safe to call while a run is in progress.
func (s *Searcher) Subscribe(o Observer) (unsubscribe func()) {
	return s.observers.add(o)
}

// Clear empties the result sink, zeroes the counters and publishes a reset
// event.
func (s *Searcher) Clear() {
	s.sink.Clear()
	s.files.Store(0)
	s.dirs.Store(0)
	s.observers.publish(s.snapshot(EventReset, s.RunID()))
}

// StartPath returns the canonical start path of the current configuration.
func (s *Searcher) StartPath() string { return s.Config().StartPath }

// MaxContentBytes returns the content size cap in effect.
func (s *Searcher) MaxContentBytes() int64 { return s.Config().MaxContentBytes }

// Running reports whether a run is in progress.
func (s *Searcher) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// StopRequested reports whether the current run has been asked to stop.
func (s *Searcher) StopRequested() bool { return s.stopRequested.Load() }

// RunID identifies the current or most recent run.
func (s *Searcher) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// FileCount returns the number of non-directory entries examined.
func (s *Searcher) FileCount() int64 { return s.files.Load() }

// DirCount returns the number of distinct directories visited.
func (s *Searcher) DirCount() int64 { return s.dirs.Load() }

// MatchCount returns the number of results in the sink.
func (s *Searcher) MatchCount() int { return s.sink.Size() }

// Sink returns the result sink.
func (s *Searcher) Sink() ResultSink { return s.sink }

func (s *Searcher) snapshot(kind EventKind, runID string) Event {
	return Event{
		Kind:    kind,
		RunID:   runID,
		Files:   s.files.Load(),
		Dirs:    s.dirs.Load(),
		Matches: s.sink.Size(),
	}
}
