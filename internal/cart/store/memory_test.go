package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AdrielTeles97/nihon-auto-sub000/pkg/errors"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:a", "[]"))

	got, err := s.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "cart:missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:a", "x"))
	require.NoError(t, s.Delete(ctx, "cart:a"))

	_, err := s.Get(ctx, "cart:a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, s.Delete(ctx, "cart:a"))
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart:a", "first"))
	require.NoError(t, s.Set(ctx, "cart:a", "second"))

	got, err := s.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}
