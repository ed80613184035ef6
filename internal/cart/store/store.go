package store

import "context"

// Store is the durable key-value contract the cart ledger persists through.
// Any implementation (Redis, memory, embedded DB) satisfying it is
// acceptable.
type Store interface {
	// Get returns the stored value, or pkg/errors.ErrNotFound when the key
	// is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes the value, overwriting any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error
}
