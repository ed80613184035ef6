package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart/store"
)

// Registry hands out one ledger per session ID, creating and rehydrating it
// lazily on first use. The application root owns the registry; nothing in
// the module reaches for ambient cart state.
type Registry struct {
	mu      sync.Mutex
	store   store.Store
	logger  *slog.Logger
	ledgers map[string]*Ledger
}

// NewRegistry creates an empty registry over the given store.
func NewRegistry(s store.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:   s,
		logger:  logger,
		ledgers: make(map[string]*Ledger),
	}
}

// Ledger returns the ledger for the session, creating it on first access.
func (r *Registry) Ledger(ctx context.Context, sessionID string) *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[sessionID]; ok {
		return l
	}

	l := NewLedger(ctx, sessionID, r.store, r.logger)
	r.ledgers[sessionID] = l
	return l
}

// Evict drops the cached ledger for a session. The durable copy, if any,
// stays in the store.
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ledgers, sessionID)
}
