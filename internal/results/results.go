// Package results holds the ordered list of matched paths produced by a
// search. It is the default result sink used by the CLI and the TUI.
package results

import "sync"

// List is an append-only ordered store of paths. It is safe for concurrent
// use so a display can read while a background search appends.
type List struct {
	mu    sync.RWMutex
	items []string
}

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Add appends path.
func (l *List) Add(path string) {
	l.mu.Lock()
	l.items = append(l.items, path)
	l.mu.Unlock()
}

// Get returns the path at index i, or "" when i is out of range.
func (l *List) Get(i int) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return ""
	}
	return l.items[i]
}

// Size returns the number of stored paths.
func (l *List) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Clear empties the list.
func (l *List) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
}

// Snapshot returns a copy of the stored paths in insertion order.
func (l *List) Snapshot() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}
