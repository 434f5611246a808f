// Package activity keeps a bounded in-memory feed of recent engine
// actions for the status API and CLI.
package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an engine action.
type Kind string

// Recorded action kinds.
const (
	KindLaunch  Kind = "launch"
	KindClose   Kind = "close"
	KindSwitch  Kind = "switch"
	KindRefresh Kind = "refresh"
	KindNoMatch Kind = "no_match"
)

// Entry is one recorded action.
type Entry struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	App     string    `json:"app"`
	Detail  string    `json:"detail,omitempty"`
	Success bool      `json:"success"`
	At      time.Time `json:"at"`
}

// Log is a fixed-capacity ring of entries. Oldest entries are dropped.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewLog creates a log holding up to capacity entries.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 100
	}
	return &Log{capacity: capacity}
}

// Record appends an entry and returns it.
func (l *Log) Record(kind Kind, app, detail string, success bool) Entry {
	entry := Entry{
		ID:      uuid.New().String(),
		Kind:    kind,
		App:     app,
		Detail:  detail,
		Success: success,
		At:      time.Now(),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
	l.mu.Unlock()

	return entry
}

// Recent returns up to n entries, newest first. n <= 0 returns everything.
func (l *Log) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
