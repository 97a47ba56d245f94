package state

import (
	"sync"
	"time"

	"github.com/five82/imgqueue/internal/convert"
	"github.com/five82/imgqueue/internal/queue"
	"github.com/five82/imgqueue/internal/settings"
)

// Snapshot represents the latest session state available to the UI.
type Snapshot struct {
	Queue       []queue.Entry
	Settings    settings.Settings
	Status      string
	Converting  bool
	Progress    convert.Progress
	HasProgress bool
	LastOutcome convert.Outcome
	HasOutcome  bool
	SuccessOpen bool
	SuccessText string
	DropActive  bool
	Theme       string
	LastUpdated time.Time
}

// CountLabel returns the queue heading for the snapshot.
func (s Snapshot) CountLabel() string {
	return queue.CountLabel(len(s.Queue))
}

// Store coordinates concurrent access to the snapshot. Every change replaces
// the whole value, so readers never observe a partial update.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore seeds a Store with initial.
func NewStore(initial Snapshot) *Store {
	s := &Store{}
	s.snapshot = clone(initial)
	s.snapshot.LastUpdated = time.Now()
	return s
}

// Apply replaces the snapshot with fn's result. fn receives a private copy
// and runs under the write lock; it must not call back into the Store.
func (s *Store) Apply(fn func(Snapshot) Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(fn(clone(s.snapshot)))
	next.LastUpdated = time.Now()
	s.snapshot = next
	return clone(next)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snapshot)
}

func clone(snap Snapshot) Snapshot {
	snap.Queue = queue.Clone(snap.Queue)
	return snap
}
