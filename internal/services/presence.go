package services

import (
	"sync"
	"time"
)

// Presence tracks the pending-removal timer of each disconnected connection.
// A timer is keyed by the connection id it was scheduled for; a reconnection
// must cancel by the old connection id, not the new one.
type Presence struct {
	mu     sync.Mutex
	grace  time.Duration
	timers map[string]*time.Timer
}

func NewPresence(grace time.Duration) *Presence {
	return &Presence{
		grace:  grace,
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a removal callback for the connection id after the grace
// period. An existing timer for the same id is replaced. The callback runs
// at most once and the handle is dropped before it fires.
func (p *Presence) Schedule(connID string, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.timers[connID]; ok {
		t.Stop()
	}
	p.timers[connID] = time.AfterFunc(p.grace, func() {
		p.mu.Lock()
		delete(p.timers, connID)
		p.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending timer for a connection id if one exists.
// Cancelling an already-fired or unknown timer is a safe no-op.
func (p *Presence) Cancel(connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.timers[connID]
	if !ok {
		return false
	}
	delete(p.timers, connID)
	return t.Stop()
}

// Pending reports whether a removal is currently scheduled for the id.
func (p *Presence) Pending(connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.timers[connID]
	return ok
}
