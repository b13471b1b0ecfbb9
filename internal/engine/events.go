package engine

import (
	"runtime/debug"
	"sync"

	"github.com/filesearch/filesearch/internal/logger"
)

// Event names delivered to observers. Display layers key off these strings.
const (
	NameUIUpdate = "UI_UPDATE"
	NameStop     = "STOP"
)

// EventKind identifies what happened.
type EventKind int

const (
	// EventReset is published when counters and results are cleared, which
	// includes the start of every run.
	EventReset EventKind = iota
	// EventProgress is published once per newly visited directory.
	EventProgress
	// EventMatch is published once per match, after the path reached the sink.
	EventMatch
	// EventStop is published exactly once when a run ends and is always the
	// last event of that run.
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventProgress:
		return "progress"
	case EventMatch:
		return "match"
	case EventStop:
		return "stop"
	}
	return "unknown"
}

// Event is delivered to observers. Counters are the values at emission time.
type Event struct {
	Kind    EventKind
	RunID   string
	Path    string // set for EventMatch
	Files   int64
	Dirs    int64
	Matches int
	// Stopped is set on EventStop when the run ended because a stop was
	// requested or its context was cancelled.
	Stopped bool
}

// Name returns the stable event name: "STOP" for stop events and
// "UI_UPDATE" for everything else.
func (e Event) Name() string {
	if e.Kind == EventStop {
		return NameStop
	}
	return NameUIUpdate
}

// Observer receives search events. OnEvent runs on the traversal goroutine
// in emission order; it must not block waiting for the run to finish.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) { f(e) }

type subscription struct {
	id  uint64
	obs Observer
}

// observerList is safe for subscribe/unsubscribe while a run is publishing.
type observerList struct {
	mu   sync.RWMutex
	next uint64
	subs []subscription
	log  logger.Logger
}

func (l *observerList) add(o Observer) func() {
	l.mu.Lock()
	l.next++
	id := l.next
	l.subs = append(l.subs, subscription{id: id, obs: o})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *observerList) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

func (l *observerList) len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}

func (l *observerList) publish(e Event) {
	// copy so observers can unsubscribe from inside OnEvent
	l.mu.RLock()
	subs := make([]subscription, len(l.subs))
	copy(subs, l.subs)
	l.mu.RUnlock()

	for _, s := range subs {
		l.deliver(s.obs, e)
	}
}

func (l *observerList) deliver(o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("observer panic on %s event: %v\n%s", e.Kind, r, debug.Stack())
		}
	}()
	o.OnEvent(e)
}
