package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart/store"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
)

const keyPrefix = "cart:"

// Ledger holds the authoritative cart lines for one browsing session. The
// in-memory state is the source of truth; the store is a best-effort durable
// copy written through on every mutation. A mutex guards the lines because
// concurrent HTTP requests for the same session are possible.
type Ledger struct {
	mu        sync.Mutex
	sessionID string
	store     store.Store
	logger    *slog.Logger
	lines     []domain.CartLine
	dirty     bool
}

// AddInput carries everything Add needs to build a denormalized line.
type AddInput struct {
	Product   *domain.Product
	Quantity  int
	Variation *domain.Variation
	// Attributes is the resolved selection, kept on the line for rendering.
	Attributes map[string]string
}

// NewLedger builds a ledger for the session and rehydrates it from the store
// once. A missing key starts an empty cart; corrupt stored JSON is discarded
// with a warning, never an error.
func NewLedger(ctx context.Context, sessionID string, s store.Store, logger *slog.Logger) *Ledger {
	l := &Ledger{
		sessionID: sessionID,
		store:     s,
		logger:    logger,
	}
	l.rehydrate(ctx)
	return l
}

func (l *Ledger) key() string {
	return keyPrefix + l.sessionID
}

func (l *Ledger) rehydrate(ctx context.Context) {
	raw, err := l.store.Get(ctx, l.key())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			l.logger.WarnContext(ctx, "cart rehydration failed, starting empty",
				slog.String("session_id", l.sessionID),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		l.logger.WarnContext(ctx, "stored cart is corrupt, starting empty",
			slog.String("session_id", l.sessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	l.lines = lines
}

// Add puts quantity units of the product (and optional variation) in the
// cart. Quantities below 1 are clamped to 1. A line already present for the
// same (product, variation) pair has its quantity incremented instead of a
// duplicate being appended. Variation price and image override the product
// base values in the denormalized snapshot.
func (l *Ledger) Add(ctx context.Context, in AddInput) {
	if in.Product == nil {
		return
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	variationID := ""
	if in.Variation != nil {
		variationID = in.Variation.ID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.findLine(in.Product.ID, variationID); i >= 0 {
		l.lines[i].Quantity += qty
		l.persist(ctx)
		return
	}

	line := domain.CartLine{
		ProductID:   in.Product.ID,
		VariationID: variationID,
		Quantity:    qty,
		Name:        in.Product.Name,
		UnitPrice:   in.Product.BasePrice,
		Image:       in.Product.BaseImage,
		Brand:       in.Product.Brand,
		Attributes:  in.Attributes,
	}
	if in.Variation != nil {
		line.UnitPrice = in.Variation.EffectivePrice(in.Product)
		if in.Variation.Image != "" {
			line.Image = in.Variation.Image
		}
	}

	l.lines = append(l.lines, line)
	l.persist(ctx)
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line entirely; callers rely on this to implement
// "decrement past 1 removes the item". An unknown line is absorbed as a
// no-op.
func (l *Ledger) UpdateQuantity(ctx context.Context, productID, variationID string, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.findLine(productID, variationID)
	if i < 0 {
		return
	}

	if quantity <= 0 {
		l.lines = append(l.lines[:i], l.lines[i+1:]...)
	} else {
		l.lines[i].Quantity = quantity
	}
	l.persist(ctx)
}

// RemoveLine deletes a line. Absent lines are a no-op, not an error.
func (l *Ledger) RemoveLine(ctx context.Context, productID, variationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.findLine(productID, variationID)
	if i < 0 {
		return
	}

	l.lines = append(l.lines[:i], l.lines[i+1:]...)
	l.persist(ctx)
}

// Clear empties the cart.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = nil
	l.persist(ctx)
}

// Snapshot recomputes the derived view from the current lines. It never
// returns stale cached totals.
func (l *Ledger) Snapshot() domain.CartSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]domain.CartLine, len(l.lines))
	copy(items, l.lines)

	snap := domain.CartSnapshot{Items: items}
	for _, line := range items {
		snap.ItemCount += line.Quantity
		snap.Subtotal += line.UnitPrice * int64(line.Quantity)
	}
	return snap
}

// ItemCount is a shortcut for Snapshot().ItemCount; badge rendering queries
// it on every request.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, line := range l.lines {
		count += line.Quantity
	}
	return count
}

// findLine must be called with the mutex held.
func (l *Ledger) findLine(productID, variationID string) int {
	for i := range l.lines {
		if l.lines[i].ProductID == productID && l.lines[i].VariationID == variationID {
			return i
		}
	}
	return -1
}

// persist writes the full line set through to the store. Failures are logged
// and leave memory untouched; the ledger is marked dirty so the next
// successful mutation rewrites the whole state. Must be called with the
// mutex held.
func (l *Ledger) persist(ctx context.Context) {
	data, err := json.Marshal(l.lines)
	if err != nil {
		// Lines are plain structs; this cannot realistically fail.
		l.logger.ErrorContext(ctx, "marshal cart state",
			slog.String("session_id", l.sessionID),
			slog.String("error", err.Error()),
		)
		l.dirty = true
		return
	}

	if err := l.store.Set(ctx, l.key(), string(data)); err != nil {
		l.logger.WarnContext(ctx, "cart persistence failed, memory state kept",
			slog.String("session_id", l.sessionID),
			slog.String("error", err.Error()),
		)
		l.dirty = true
		return
	}

	l.dirty = false
}

// Dirty reports whether the last persistence attempt failed.
func (l *Ledger) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}
