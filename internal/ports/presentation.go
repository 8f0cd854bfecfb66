package ports

import "smor/internal/domain"

// LogSink receives every narrative log entry in order.
type LogSink interface {
	Append(entry domain.LogEntry)
}

// Display receives a fresh snapshot after every visible state change.
type Display interface {
	Show(snapshot domain.Snapshot)
}

// Discard is a LogSink and Display that drops everything.
type Discard struct{}

func (Discard) Append(domain.LogEntry) {}
func (Discard) Show(domain.Snapshot)   {}
