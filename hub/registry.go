package hub

import (
	"sync"

	"chat-wire/contract"
)

type entry struct {
	session contract.Session
	epoch   uint64
}

// Registry is the live mapping from user ID to the single current
// session. Each registration gets a monotonically increasing epoch so
// that a disconnect raised by a superseded connection can never evict
// a newer one (last-connect-wins without the stale-unregister race).
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]entry
	lastEpoch uint64
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]entry)}
}

// Register inserts or replaces the mapping for userID and returns the
// epoch of the new registration. When an older session is replaced it
// is returned so the caller can kick it; the registry itself never
// touches the transport.
func (r *Registry) Register(userID string, s contract.Session) (uint64, contract.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastEpoch++
	previous, existed := r.sessions[userID]
	r.sessions[userID] = entry{session: s, epoch: r.lastEpoch}
	if !existed {
		return r.lastEpoch, nil
	}
	return r.lastEpoch, previous.session
}

// Unregister removes the mapping only if the stored registration still
// carries the given epoch. It reports whether an eviction happened, so
// the caller knows whether this disconnect owns the presence flip.
func (r *Registry) Unregister(userID string, epoch uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[userID]
	if !ok || current.epoch != epoch {
		return false
	}
	delete(r.sessions, userID)
	return true
}

// Lookup resolves the current session for a user, if any.
func (r *Registry) Lookup(userID string) (contract.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return current.session, true
}

// Online returns a snapshot of currently connected user IDs.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for userID := range r.sessions {
		ids = append(ids, userID)
	}
	return ids
}
