package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrielTeles97/nihon-auto-sub000/internal/cart/store"
	"github.com/AdrielTeles97/nihon-auto-sub000/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) (*Ledger, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	return NewLedger(context.Background(), "sess-test", s, testLogger()), s
}

func int64Ptr(v int64) *int64 { return &v }

func espuma() *domain.Product {
	return &domain.Product{
		ID:        "1",
		Name:      "Espuma",
		BasePrice: 2990,
	}
}

func capaBanco() *domain.Product {
	return &domain.Product{
		ID:        "7",
		Name:      "Capa de Banco",
		Brand:     "Nihon",
		BasePrice: 12990,
		BaseImage: "capa-base.jpg",
	}
}

func TestLedger_SimpleAdd(t *testing.T) {
	l, _ := newTestLedger(t)

	l.Add(context.Background(), AddInput{Product: espuma(), Quantity: 2})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, int64(5980), snap.Subtotal)
	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, 2, l.ItemCount())
}

func TestLedger_MergeOnRepeatAdd(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, AddInput{Product: espuma(), Quantity: 2})
	l.Add(ctx, AddInput{Product: espuma(), Quantity: 3})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, int64(14950), snap.Subtotal)
}

func TestLedger_UniquenessPerProductVariationPair(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	p := capaBanco()
	v1 := &domain.Variation{ID: "v1", Attributes: map[string]string{"cor": "preto"}}
	v2 := &domain.Variation{ID: "v2", Attributes: map[string]string{"cor": "branco"}}

	l.Add(ctx, AddInput{Product: p, Quantity: 1, Variation: v1})
	l.Add(ctx, AddInput{Product: p, Quantity: 1, Variation: v2})
	l.Add(ctx, AddInput{Product: p, Quantity: 1, Variation: v1})
	l.Add(ctx, AddInput{Product: p, Quantity: 1})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 3, "same pair merges, distinct pairs stay separate")

	seen := make(map[string]bool)
	for _, line := range snap.Items {
		key := line.ProductID + "|" + line.VariationID
		assert.False(t, seen[key], "duplicate line for %s", key)
		seen[key] = true
	}
}

func TestLedger_VariationOverridesPriceAndImage(t *testing.T) {
	l, _ := newTestLedger(t)

	p := capaBanco()
	v := &domain.Variation{
		ID:    "v1",
		Price: int64Ptr(13990),
		Image: "capa-preta.jpg",
	}
	l.Add(context.Background(), AddInput{
		Product:    p,
		Quantity:   1,
		Variation:  v,
		Attributes: map[string]string{"cor": "Preto"},
	})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	line := snap.Items[0]
	assert.Equal(t, int64(13990), line.UnitPrice)
	assert.Equal(t, "capa-preta.jpg", line.Image)
	assert.Equal(t, "Nihon", line.Brand)
	assert.Equal(t, "Preto", line.Attributes["cor"])
}

func TestLedger_AddClampsQuantityToOne(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, AddInput{Product: espuma(), Quantity: 0})
	l.Add(ctx, AddInput{Product: espuma(), Quantity: -3})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity, "each invalid add counts as one unit")
}

func TestLedger_UpdateQuantity(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, AddInput{Product: espuma(), Quantity: 2})
	l.UpdateQuantity(ctx, "1", "", 7)

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 7, snap.Items[0].Quantity)
}

func TestLedger_RemovalByZero(t *testing.T) {
	for _, qty := range []int{0, -5} {
		l, _ := newTestLedger(t)
		ctx := context.Background()

		l.Add(ctx, AddInput{Product: espuma(), Quantity: 2})
		l.UpdateQuantity(ctx, "1", "", qty)

		snap := l.Snapshot()
		assert.Empty(t, snap.Items, "quantity %d must remove the line", qty)
		assert.Equal(t, 0, snap.ItemCount)
		assert.Equal(t, int64(0), snap.Subtotal)
	}
}

func TestLedger_UnknownLineMutationsAbsorbed(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, AddInput{Product: espuma(), Quantity: 1})

	assert.NotPanics(t, func() {
		l.UpdateQuantity(ctx, "999", "", 3)
		l.RemoveLine(ctx, "999", "")
		l.RemoveLine(ctx, "1", "nonexistent-variation")
	})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestLedger_Clear(t *testing.T) {
	l, s := newTestLedger(t)
	ctx := context.Background()

	l.Add(ctx, AddInput{Product: espuma(), Quantity: 2})
	l.Add(ctx, AddInput{Product: capaBanco(), Quantity: 1})
	l.Clear(ctx)

	snap := l.Snapshot()
	assert.Empty(t, snap.Items)

	raw, err := s.Get(ctx, "cart:sess-test")
	require.NoError(t, err)
	assert.JSONEq(t, "null", raw, "cleared state is persisted")
}

func TestLedger_SnapshotConsistency(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	p1, p2 := espuma(), capaBanco()
	v := &domain.Variation{ID: "v1", Price: int64Ptr(9990)}

	l.Add(ctx, AddInput{Product: p1, Quantity: 2})
	l.Add(ctx, AddInput{Product: p2, Quantity: 1, Variation: v})
	l.UpdateQuantity(ctx, p1.ID, "", 4)
	l.Add(ctx, AddInput{Product: p1, Quantity: 1})
	l.RemoveLine(ctx, p2.ID, "v1")
	l.Add(ctx, AddInput{Product: p2, Quantity: 3})

	snap := l.Snapshot()
	wantCount := 0
	var wantSubtotal int64
	for _, line := range snap.Items {
		wantCount += line.Quantity
		wantSubtotal += line.UnitPrice * int64(line.Quantity)
	}
	assert.Equal(t, wantCount, snap.ItemCount)
	assert.Equal(t, wantSubtotal, snap.Subtotal)
}

func TestLedger_Rehydration(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	lines := []domain.CartLine{
		{ProductID: "1", Quantity: 2, Name: "Espuma", UnitPrice: 2990},
	}
	data, err := json.Marshal(lines)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "cart:sess-old", string(data)))

	l := NewLedger(ctx, "sess-old", s, testLogger())

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Espuma", snap.Items[0].Name)
	assert.Equal(t, int64(5980), snap.Subtotal)
}

func TestLedger_Rehydration_CorruptStateDiscarded(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, "cart:sess-bad", "{corrupt"))

	l := NewLedger(ctx, "sess-bad", s, testLogger())
	assert.Empty(t, l.Snapshot().Items)
}

// failingStore rejects writes but keeps reads working.
type failingStore struct {
	inner    store.Store
	failSet  bool
	setCalls int
}

func (f *failingStore) Get(ctx context.Context, key string) (string, error) {
	return f.inner.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	f.setCalls++
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.inner.Set(ctx, key, value)
}

func (f *failingStore) Delete(ctx context.Context, key string) error {
	return f.inner.Delete(ctx, key)
}

func TestLedger_PersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{inner: store.NewMemoryStore(), failSet: true}
	l := NewLedger(ctx, "sess-flaky", fs, testLogger())

	l.Add(ctx, AddInput{Product: espuma(), Quantity: 2})

	snap := l.Snapshot()
	require.Len(t, snap.Items, 1, "memory state survives the failed write")
	assert.True(t, l.Dirty())

	// Store heals; the next mutation rewrites the full state.
	fs.failSet = false
	l.Add(ctx, AddInput{Product: espuma(), Quantity: 1})

	assert.False(t, l.Dirty())
	raw, err := fs.inner.Get(ctx, "cart:sess-flaky")
	require.NoError(t, err)

	var persisted []domain.CartLine
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, 3, persisted[0].Quantity)
}

func TestRegistry_ReturnsSameLedgerPerSession(t *testing.T) {
	r := NewRegistry(store.NewMemoryStore(), testLogger())
	ctx := context.Background()

	a := r.Ledger(ctx, "sess-a")
	b := r.Ledger(ctx, "sess-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, r.Ledger(ctx, "sess-a"))

	r.Evict("sess-a")
	assert.NotSame(t, a, r.Ledger(ctx, "sess-a"))
}
