package provider

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Dicklesworthstone/osmonitor/internal/model"
)

var ErrDisconnected = errors.New("provider disconnected")

// Collector produces one batch for the requested categories.
type Collector interface {
	Collect(cats []model.Category) ([]model.RawRecord, error)
}

// Killer terminates processes on behalf of the caller.
type Killer interface {
	Kill(pid int) error
}

type scheduled struct {
	id    string
	timer *time.Timer
}

// Local is an in-process provider. It keeps at most one scheduled request per
// listener: a new request replaces the old one.
type Local struct {
	collector Collector
	killer    Killer

	mu      sync.Mutex
	pending map[string]scheduled
	closed  bool
}

func NewLocal(c Collector, k Killer) *Local {
	return &Local{
		collector: c,
		killer:    k,
		pending:   make(map[string]scheduled),
	}
}

// Request schedules a collection after req.Delay and calls deliver from a
// timer goroutine. A failed collection is delivered as a nil batch.
func (l *Local) Request(req model.PollRequest, deliver func(model.Delivery)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrDisconnected
	}
	if old, ok := l.pending[req.Listener]; ok {
		old.timer.Stop()
	}

	t := time.AfterFunc(req.Delay, func() {
		records, err := l.collector.Collect(req.Categories)
		if err != nil {
			log.Printf("warning: collect for %s: %v", req.Listener, err)
			records = nil
		}
		if !l.finish(req.Listener, req.ID) {
			return
		}
		deliver(model.Delivery{RequestID: req.ID, Records: records})
	})
	l.pending[req.Listener] = scheduled{id: req.ID, timer: t}
	return nil
}

// finish clears the listener's slot if id is still the current request.
func (l *Local) finish(listener, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.pending[listener]
	if !ok || cur.id != id {
		return false
	}
	delete(l.pending, listener)
	return true
}

// Cancel drops the listener's scheduled request, if any.
func (l *Local) Cancel(listener string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if old, ok := l.pending[listener]; ok {
		old.timer.Stop()
		delete(l.pending, listener)
	}
}

// Disconnect cancels everything and refuses further requests.
func (l *Local) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, s := range l.pending {
		s.timer.Stop()
		delete(l.pending, id)
	}
	l.closed = true
	return nil
}

// KillProcess terminates pid through the provider's own privileges.
func (l *Local) KillProcess(pid int) error {
	if l.killer == nil {
		return fmt.Errorf("kill %d: %w", pid, errors.ErrUnsupported)
	}
	if pid <= 0 {
		return fmt.Errorf("kill: invalid pid %d", pid)
	}
	if err := l.killer.Kill(pid); err != nil {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	return nil
}

// Outstanding is the number of listeners with a scheduled request.
func (l *Local) Outstanding() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}
