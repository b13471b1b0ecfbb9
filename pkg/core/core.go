package core

import (
	"context"
	"time"

	"github.com/filesearch/filesearch/internal/engine"
	"github.com/filesearch/filesearch/internal/report"
	"github.com/filesearch/filesearch/internal/results"
)

// Re-export selected internal types as a stable public API surface.
type (
	Config       = engine.Config
	Event        = engine.Event
	Observer     = engine.Observer
	ObserverFunc = engine.ObserverFunc
	Searcher     = engine.Searcher
	Report       = report.Report
)

// NewSearcher returns a searcher that keeps its matches in memory.
func NewSearcher() *Searcher { return engine.New(results.NewList()) }

// Search runs a foreground search and returns its report.
func Search(cfg Config) (Report, error) {
	return SearchContext(context.Background(), cfg)
}

// SearchContext is Search with cancellation. Observers receive every event
// of the run. A cancelled context ends the search early; the partial report
// has Stopped set.
func SearchContext(ctx context.Context, cfg Config, observers ...Observer) (Report, error) {
	list := results.NewList()
	s := engine.New(list)
	if err := s.Configure(cfg); err != nil {
		return Report{}, err
	}
	stopped := false
	s.Subscribe(engine.ObserverFunc(func(e engine.Event) {
		if e.Kind == engine.EventStop {
			stopped = e.Stopped
		}
	}))
	for _, o := range observers {
		s.Subscribe(o)
	}

	start := time.Now()
	if err := s.Run(ctx, false); err != nil {
		return Report{}, err
	}
	resolved := s.Config()
	return Report{
		RunID:     s.RunID(),
		StartPath: resolved.StartPath,
		Pattern:   resolved.Pattern,
		Contents:  resolved.SearchContents,
		Matches:   list.Snapshot(),
		Files:     s.FileCount(),
		Dirs:      s.DirCount(),
		Stopped:   stopped,
		Duration:  time.Since(start),
	}, nil
}
