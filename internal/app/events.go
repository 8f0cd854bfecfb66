package app

import (
	"sync"

	"smor/internal/domain"
)

// EventKind identifies emitted events for host dispatch.
type EventKind string

const (
	EventLog         EventKind = "log"
	EventSnapshot    EventKind = "snapshot"
	EventDecision    EventKind = "decision"
	EventGameEnded   EventKind = "game_ended"
	EventGameAborted EventKind = "game_aborted"
)

// Event is an outbound notification with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player IDs; empty means broadcast
}

// DecisionPayload announces an open decision to the player who owns it.
type DecisionPayload struct {
	Decision PendingDecision
	Ticket   string
}

// GameEndedPayload carries the final standings.
type GameEndedPayload struct {
	Result Result
}

// GameAbortedPayload carries the reason a game stopped early.
type GameAbortedPayload struct {
	Reason string
}

// Feed turns engine output into a channel of Events. It implements
// ports.LogSink and ports.Display.
type Feed struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewFeed creates a feed buffering up to size events.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 256
	}
	return &Feed{ch: make(chan Event, size), done: make(chan struct{})}
}

// Events returns the receive side of the feed.
func (f *Feed) Events() <-chan Event {
	return f.ch
}

// Append implements ports.LogSink.
func (f *Feed) Append(entry domain.LogEntry) {
	f.Publish(Event{Kind: EventLog, Payload: entry})
}

// Show implements ports.Display.
func (f *Feed) Show(snapshot domain.Snapshot) {
	f.Publish(Event{Kind: EventSnapshot, Payload: snapshot})
}

// Publish blocks until ev is buffered or the feed is abandoned.
func (f *Feed) Publish(ev Event) {
	select {
	case f.ch <- ev:
	case <-f.done:
	}
}

// close ends the stream. Only the goroutine that publishes may call it.
func (f *Feed) close() {
	close(f.ch)
}

// Abandon releases any publisher blocked on a consumer that stopped reading.
func (f *Feed) Abandon() {
	f.closeOnce.Do(func() { close(f.done) })
}
