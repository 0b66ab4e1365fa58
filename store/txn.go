package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/rustyeddy/wealthgrid/internal/metrics"
)

// Txn is one optimistic mutation. Apply, Commit and Rollback run under the
// store's write lock; Remote runs without it.
type Txn[T any] struct {
	Op string
	// Apply changes the snapshot. A non-nil error aborts the transaction
	// before any network call.
	Apply func() error
	// Remote makes the change durable.
	Remote func(ctx context.Context) (T, error)
	// Commit folds the confirmed result into the snapshot. May be nil.
	Commit func(T)
	// Rollback undoes Apply after Remote failed.
	Rollback func()
}

// runTxn applies tx locally, then remotely, then commits or rolls back. If
// the snapshot was dropped meanwhile (sign-out), neither Commit nor Rollback
// runs: there is nothing left to fix up.
func runTxn[T any](ctx context.Context, s *Store, tx Txn[T]) (T, error) {
	var zero T

	s.mu.Lock()
	if err := tx.Apply(); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	epoch := s.epoch
	s.mu.Unlock()

	v, err := tx.Remote(ctx)

	s.mu.Lock()
	current := s.epoch == epoch
	switch {
	case err != nil && current && tx.Rollback != nil:
		tx.Rollback()
	case err == nil && current && tx.Commit != nil:
		tx.Commit(v)
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.Optimistic(tx.Op, metrics.RolledBack)
		s.log.Warn("optimistic change rolled back", zap.String("op", tx.Op), zap.Error(err))
		return zero, err
	}
	s.metrics.Optimistic(tx.Op, metrics.Committed)
	return v, nil
}
