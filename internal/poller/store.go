package poller

import (
	"sync"
	"time"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

// Store is the published read model. Poll-derived fields and battery fields
// are written as separate groups; each group update is atomic.
type Store struct {
	mu      sync.RWMutex
	snap    model.Snapshot
	updates chan struct{}
}

func NewStore() *Store {
	return &Store{
		snap:    model.Zero(),
		updates: make(chan struct{}, 1),
	}
}

// PublishCycle replaces the poll-derived fields from one decode pass. Memory is
// only replaced when the pass carried an OS record.
func (s *Store) PublishCycle(c model.Cycle, at time.Time) {
	s.mu.Lock()
	if c.HasOS {
		s.snap.Memory = c.Memory
	}
	s.snap.Top = c.Top
	s.snap.TotalCPU = c.TotalCPU
	s.snap.Skipped = c.Skipped
	s.snap.Cycles++
	s.snap.UpdatedAt = at
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// PublishBattery replaces the battery fields.
func (s *Store) PublishBattery(b model.BatteryState) {
	s.mu.Lock()
	s.snap.Battery = b
	s.mu.Unlock()
}

// Load returns a copy of the current snapshot.
func (s *Store) Load() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Updates signals after each published cycle. Signals coalesce.
func (s *Store) Updates() <-chan struct{} {
	return s.updates
}
