package filesearch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/filesearch/filesearch/internal/config"
	"github.com/filesearch/filesearch/internal/engine"
	"github.com/filesearch/filesearch/internal/logger"
	"github.com/filesearch/filesearch/internal/report"
	"github.com/filesearch/filesearch/internal/results"
	"github.com/spf13/cobra"
)

// settings are the effective options after applying CLI > local > global.
type settings struct {
	recurse    bool
	contents   bool
	ignoreCase bool
	literal    bool
	noColor    bool
	maxBytes   int64
	exclude    string
	logLevel   string
	ignoreFile string

	sources    map[string]string
	localPath  string
	globalPath string
}

func loadSettings(dir string) (settings, error) {
	var s settings
	gcfg, err := config.LoadGlobal()
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return s, fmt.Errorf("global config: %w", err)
	}
	if err == nil {
		s.globalPath = config.GlobalPath()
	}
	lcfg, err := config.LoadLocal(dir)
	if err != nil && !errors.Is(err, config.ErrNoConfig) {
		return s, fmt.Errorf("local config: %w", err)
	}
	if err == nil {
		s.localPath = config.FindLocal(dir)
	}

	s.recurse = pickBool(flagRecurse, lcfg.Recurse, gcfg.Recurse)
	s.contents = pickBool(flagContents, lcfg.Contents, gcfg.Contents)
	s.ignoreCase = pickBool(flagIgnoreCase, lcfg.IgnoreCase, gcfg.IgnoreCase)
	s.literal = pickBool(flagLiteral, lcfg.Literal, gcfg.Literal)
	s.noColor = pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) || os.Getenv("NO_COLOR") != ""
	s.maxBytes = pickInt64(flagMaxBytes, lcfg.MaxContentBytes, gcfg.MaxContentBytes)
	s.exclude = pickString(flagExclude, lcfg.Exclude, gcfg.Exclude)
	s.logLevel = pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel)
	if s.logLevel == "" {
		s.logLevel = "warn"
	}
	if !flagNoIgnore {
		s.ignoreFile = engine.DefaultIgnoreFile
	}

	s.sources = map[string]string{
		"recurse":           sourceOf(flagRecurse, lcfg.Recurse != nil, gcfg.Recurse != nil),
		"contents":          sourceOf(flagContents, lcfg.Contents != nil, gcfg.Contents != nil),
		"ignore_case":       sourceOf(flagIgnoreCase, lcfg.IgnoreCase != nil, gcfg.IgnoreCase != nil),
		"literal":           sourceOf(flagLiteral, lcfg.Literal != nil, gcfg.Literal != nil),
		"no_color":          sourceOf(flagNoColor, lcfg.NoColor != nil, gcfg.NoColor != nil),
		"max_content_bytes": sourceOf(flagMaxBytes != 0, lcfg.MaxContentBytes != nil, gcfg.MaxContentBytes != nil),
		"exclude":           sourceOf(flagExclude != "", lcfg.Exclude != nil, gcfg.Exclude != nil),
		"log_level":         sourceOf(flagLogLevel != "", lcfg.LogLevel != nil, gcfg.LogLevel != nil),
	}
	return s, nil
}

// configDir is where a local config file for path is looked up.
func configDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

func (s settings) engineConfig(path, pattern string) engine.Config {
	return engine.Config{
		StartPath:       path,
		Pattern:         pattern,
		Literal:         s.literal,
		IgnoreCase:      s.ignoreCase,
		SearchContents:  s.contents,
		Recurse:         s.recurse,
		MaxContentBytes: s.maxBytes,
		Exclude:         engine.SplitGlobs(s.exclude),
		IgnoreFile:      s.ignoreFile,
	}
}

func newLogger(w io.Writer, s settings) *logger.ConsoleLogger {
	l := logger.NewConsoleLogger(w, s.logLevel)
	l.SetColor(!s.noColor && isTerminal(w))
	return l
}

// prepare resolves settings for the trailing path and pattern arguments and
// returns a configured searcher. Configuration errors are preceded by the
// usage text on stderr.
func prepare(cmd *cobra.Command, args []string, log logger.Logger) (*engine.Searcher, *results.List, settings, error) {
	path, pattern := args[len(args)-2], args[len(args)-1]
	s, err := loadSettings(configDir(path))
	if err != nil {
		return nil, nil, s, err
	}
	if log == nil {
		log = newLogger(cmd.ErrOrStderr(), s)
	}
	list := results.NewList()
	searcher := engine.New(list, engine.WithLogger(log))
	if err := searcher.Configure(s.engineConfig(path, pattern)); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return nil, nil, s, err
	}
	return searcher, list, s, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		cmd.HelpFunc()(cmd, args)
		return nil
	}
	searcher, list, s, err := prepare(cmd, args, nil)
	if err != nil {
		return err
	}

	stopped := false
	searcher.Subscribe(engine.ObserverFunc(func(e engine.Event) {
		if e.Kind == engine.EventStop {
			stopped = e.Stopped
		}
	}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	start := time.Now()
	if err := searcher.Run(ctx, false); err != nil {
		return err
	}

	cfg := searcher.Config()
	r := report.Report{
		RunID:     searcher.RunID(),
		StartPath: cfg.StartPath,
		Pattern:   cfg.Pattern,
		Contents:  cfg.SearchContents,
		Matches:   list.Snapshot(),
		Files:     searcher.FileCount(),
		Dirs:      searcher.DirCount(),
		Stopped:   stopped,
		Duration:  time.Since(start),
	}
	out := cmd.OutOrStdout()
	if flagJSON {
		return report.WriteJSON(out, r)
	}
	report.PrintText(out, r, report.PrintOptions{NoColor: s.noColor || !isTerminal(out)})
	return nil
}
