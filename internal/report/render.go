package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Report is the outcome of one run.
type Report struct {
	RunID     string        `json:"run_id,omitempty"`
	StartPath string        `json:"start_path"`
	Pattern   string        `json:"pattern"`
	Contents  bool          `json:"contents"`
	Matches   []string      `json:"matches"`
	Files     int64         `json:"files"`
	Dirs      int64         `json:"directories"`
	Stopped   bool          `json:"stopped"`
	Duration  time.Duration `json:"-"`
}

// PrintOptions controls PrintText.
type PrintOptions struct {
	NoColor bool
}

// Summary returns the one-line run summary.
func Summary(r Report) string {
	return fmt.Sprintf("%d Matched, Searched %d Files & %d Directories", len(r.Matches), r.Files, r.Dirs)
}

// PrintText writes the summary line followed by one line per match in the
// order the matches were found.
func PrintText(w io.Writer, r Report, opts PrintOptions) {
	line := Summary(r)
	if !opts.NoColor {
		line = color.New(color.Bold).Sprint(line)
	}
	fmt.Fprintln(w, line)
	for _, m := range r.Matches {
		fmt.Fprintln(w, m)
	}
}

type jsonReport struct {
	Report
	DurationMS int64 `json:"duration_ms"`
}

// WriteJSON pretty-prints r for pipelines.
func WriteJSON(w io.Writer, r Report) error {
	if r.Matches == nil {
		r.Matches = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Report: r, DurationMS: r.Duration.Milliseconds()})
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(rd io.Reader) (Report, error) {
	var jr jsonReport
	if err := json.NewDecoder(rd).Decode(&jr); err != nil {
		return Report{}, err
	}
	r := jr.Report
	r.Duration = time.Duration(jr.DurationMS) * time.Millisecond
	return r, nil
}
