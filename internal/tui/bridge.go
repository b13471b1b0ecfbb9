package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/filesearch/filesearch/internal/engine"
)

type eventMsg engine.Event

// bridge forwards engine events into the program loop. Progress ticks are
// dropped when the program falls behind; every other event is delivered
// unless the bridge has been closed.
type bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func newBridge(size int) *bridge {
	return &bridge{ch: make(chan tea.Msg, size), done: make(chan struct{})}
}

func (b *bridge) OnEvent(e engine.Event) {
	msg := eventMsg(e)
	if e.Kind == engine.EventProgress {
		select {
		case b.ch <- msg:
		default:
		}
		return
	}
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

func (b *bridge) close() {
	b.once.Do(func() { close(b.done) })
}

// listen waits for the next event.
func (b *bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}
