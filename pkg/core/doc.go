// Package core provides a small, stable facade over the internal search
// engine for programs that embed filesearch. It re-exports a narrow API
// surface so callers can depend on a stable import path.
//
// Example:
//
//	r, err := core.Search(core.Config{StartPath: ".", Pattern: `.*\.go`, Recurse: true})
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, r)
package core
