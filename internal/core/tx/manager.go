// Package tx defines the transaction boundary used by domain services.
// The postgres implementation lives in infrastructure; services only see
// this interface.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
type Manager interface {
	// RunInTransaction commits when fn returns nil and rolls back otherwise.
	// Nested calls join the transaction already carried in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for report queries that
// must see a consistent snapshot without taking write locks.
type ReadOnlyManager interface {
	Manager

	// ReadOnly runs fn in a transaction that rejects writes.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
