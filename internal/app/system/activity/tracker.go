// Package activity tracks admin heartbeats per study club so abandoned
// clubs can be cleaned up before their TTL expiry. The tracker is separate
// from the notification broker: one records when the admin was last seen,
// the other delivers events to viewers.
package activity

import (
	"context"
	"sync"
	"time"
)

// Tracker records and reports the last admin heartbeat per party code.
type Tracker interface {
	// Touch records a heartbeat for the club now.
	Touch(ctx context.Context, partyCode string) error

	// LastSeen returns the most recent heartbeat. ok is false when no
	// heartbeat is on record (never touched, or the record expired).
	LastSeen(ctx context.Context, partyCode string) (t time.Time, ok bool, err error)

	// Forget drops the record for a dismissed or expired club.
	Forget(ctx context.Context, partyCode string) error
}

// MemoryTracker is the in-process Tracker. Like the in-process broker it
// is only correct with a single server instance.
type MemoryTracker struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryTracker creates an in-process tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (m *MemoryTracker) Touch(ctx context.Context, partyCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[partyCode] = m.now().UTC()
	return nil
}

func (m *MemoryTracker) LastSeen(ctx context.Context, partyCode string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.seen[partyCode]
	return t, ok, nil
}

func (m *MemoryTracker) Forget(ctx context.Context, partyCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, partyCode)
	return nil
}
