package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DebugEntry records one completed network attempt, success or failure.
// Status 0 marks a failed attempt; Data then carries the error payload
// instead of the raw response body.
type DebugEntry struct {
	ID        string    `json:"id"`
	Endpoint  string    `json:"endpoint"`
	Status    int       `json:"status"`
	Data      string    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// DebugLog is the append-only audit trail of gateway calls. Entries are
// never removed during a session; the log is unbounded but session-scoped.
type DebugLog struct {
	mu      sync.Mutex
	entries []DebugEntry
	now     func() time.Time
}

// NewDebugLog constructs an empty log.
func NewDebugLog() *DebugLog {
	return &DebugLog{now: time.Now}
}

// Append records a completed attempt.
func (l *DebugLog) Append(endpoint string, status int, data string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, DebugEntry{
		ID:        uuid.NewString(),
		Endpoint:  endpoint,
		Status:    status,
		Data:      data,
		Timestamp: l.now().UTC(),
	})
}

// Entries returns a copy of the log in append order.
func (l *DebugLog) Entries() []DebugEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]DebugEntry(nil), l.entries...)
}

// Len returns the number of recorded attempts.
func (l *DebugLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
