package identity

import (
	"sync"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ChangeCallback observes authentication state transitions.
type ChangeCallback func(domain.Identity)

// Broadcaster fans out identity changes (login, logout, role refresh) to
// registered callbacks. Each transition is delivered at most once, and a
// notification that raced with a newer one is dropped so observers never see
// stale state overwrite fresher state.
type Broadcaster struct {
	mu        sync.Mutex
	seq       uint64
	callbacks []ChangeCallback

	deliverMu sync.Mutex
	delivered uint64
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// OnChange registers a callback for subsequent identity transitions.
func (b *Broadcaster) OnChange(cb ChangeCallback) {
	if cb == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, cb)
}

// Notify publishes a new authentication state to all callbacks.
func (b *Broadcaster) Notify(ident domain.Identity) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	cbs := append([]ChangeCallback{}, b.callbacks...)
	b.mu.Unlock()

	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()
	if seq <= b.delivered {
		// a fresher transition already went out
		return
	}
	b.delivered = seq
	for _, cb := range cbs {
		cb(ident)
	}
}
