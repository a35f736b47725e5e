package session

import (
	"sync"
	"time"
)

// Kind classifies an event log entry
type Kind string

const (
	KindSystem   Kind = "system"
	KindQuery    Kind = "query"
	KindResponse Kind = "response"
	KindSuccess  Kind = "success"
	KindError    Kind = "error"
)

// Entry is one human-readable session event
type Entry struct {
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// EventLog is an append-only, time-ordered sequence of session events.
// Insertion order is display order; entries are never reordered or
// deduplicated. A positive cap drops the oldest entries once exceeded.
type EventLog struct {
	mu        sync.Mutex
	entries   []Entry
	maxEvents int
}

// NewEventLog creates an event log. maxEvents of 0 means unbounded.
func NewEventLog(maxEvents int) *EventLog {
	return &EventLog{maxEvents: maxEvents}
}

// Append adds one entry at the end of the log
func (l *EventLog) Append(kind Kind, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Kind:      kind,
		Text:      text,
		Timestamp: time.Now(),
	})
	if l.maxEvents > 0 && len(l.entries) > l.maxEvents {
		overflow := len(l.entries) - l.maxEvents
		l.entries = append(l.entries[:0], l.entries[overflow:]...)
	}
}

// Entries returns a copy of the log in append order
func (l *EventLog) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries currently retained
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// CountKind returns how many retained entries have the given kind
func (l *EventLog) CountKind(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
