package activity

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries retained by default.
const DefaultCapacity = 50

// Entry is one timestamped line in the activity trail.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Log is a bounded, append-ordered record of connection and command events
// kept for operator visibility. Entries are ordered newest first and the
// oldest entries are dropped once the capacity is exceeded. Truncation is
// the only form of deletion.
//
// All methods are safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

// NewLog creates a log bounded to DefaultCapacity entries.
func NewLog() *Log {
	return NewLogWithCapacity(DefaultCapacity)
}

// NewLogWithCapacity creates a log bounded to the given number of entries.
// Capacities below 1 fall back to DefaultCapacity.
func NewLogWithCapacity(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		now:      time.Now,
	}
}

// Append prepends a timestamped entry, truncating to the capacity.
func (l *Log) Append(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{Timestamp: l.now().UTC(), Message: message}
	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Entries returns a copy of the current entries, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
