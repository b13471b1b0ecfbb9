package core

import (
	"io"

	"github.com/filesearch/filesearch/internal/report"
)

// MarshalReport pretty-prints a report as JSON for humans or pipelines.
func MarshalReport(w io.Writer, r Report) error {
	return report.WriteJSON(w, r)
}

// UnmarshalReport decodes report JSON, useful for ingestion tests.
func UnmarshalReport(rd io.Reader) (Report, error) {
	return report.ReadJSON(rd)
}
