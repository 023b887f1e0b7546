// Package bridge carries confirmed board events into the terminal UI.
package bridge

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/board"
)

// EventMsg is a tea.Msg carrying one board event.
type EventMsg struct {
	Event board.Event

	// Resync is set when earlier events were dropped because the channel
	// was full; the receiver should reload the whole board.
	Resync bool
}

// Channel is a board.Bridge that buffers events for a Bubble Tea program.
type Channel struct {
	events  chan board.Event
	mu      sync.Mutex
	closed  bool
	dropped bool
}

// NewChannel creates a Channel holding up to size undelivered events.
func NewChannel(size int) *Channel {
	return &Channel{events: make(chan board.Event, size)}
}

// Publish queues e without blocking. When the buffer is full the event is
// dropped and the next delivered message asks for a resync.
func (c *Channel) Publish(e board.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.events <- e:
	default:
		c.dropped = true
	}
}

// Close stops delivery. A pending Wait returns nil.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Wait returns a tea.Cmd that blocks until the next event. Call it again
// after handling each EventMsg to keep listening.
func (c *Channel) Wait() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-c.events
		if !ok {
			return nil
		}

		c.mu.Lock()
		resync := c.dropped
		c.dropped = false
		c.mu.Unlock()

		return EventMsg{Event: e, Resync: resync}
	}
}
