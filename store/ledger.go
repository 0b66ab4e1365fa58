package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/pkg/id"
	"github.com/rustyeddy/wealthgrid/wealth"
)

// AddLedgerEntry shows e at the head of the ledger under a local id, then
// creates it remotely. The confirmed record replaces the placeholder where
// it stands; a failed create removes it and returns the error.
func (s *Store) AddLedgerEntry(ctx context.Context, e wealth.Entry) (wealth.Entry, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return wealth.Entry{}, fmt.Errorf("add ledger entry: %w", err)
	}

	e.IdentityID = sess.IdentityID
	if e.Time.IsZero() {
		e.Time = s.now()
	}
	e, err = e.Normalize()
	if err != nil {
		return wealth.Entry{}, fmt.Errorf("add ledger entry: %w", err)
	}
	e.ID = id.NewLocal()
	placeholder := e

	got, err := runTxn(ctx, s, Txn[wealth.Entry]{
		Op: "add_entry",
		Apply: func() error {
			s.ledger = slices.Insert(slices.Clone(s.ledger), 0, placeholder)
			return nil
		},
		Remote: func(ctx context.Context) (wealth.Entry, error) {
			req := placeholder
			req.ID = ""
			return s.gw.CreateEntry(ctx, req)
		},
		Commit: func(got wealth.Entry) {
			s.replaceEntryLocked(placeholder.ID, got)
		},
		Rollback: func() {
			s.ledger = slices.DeleteFunc(slices.Clone(s.ledger), func(x wealth.Entry) bool {
				return x.ID == placeholder.ID
			})
		},
	})
	if err != nil {
		return wealth.Entry{}, fmt.Errorf("add ledger entry: %w", err)
	}
	return got, nil
}

// replaceEntryLocked swaps the entry with id old for got, keeping its
// position. Nothing happens if old is gone.
func (s *Store) replaceEntryLocked(old string, got wealth.Entry) {
	i := slices.IndexFunc(s.ledger, func(x wealth.Entry) bool { return x.ID == old })
	if i < 0 {
		return
	}
	ledger := slices.Clone(s.ledger)
	ledger[i] = got
	s.ledger = ledger
}

// DeleteLedgerEntry removes the entry at once and deletes it remotely. On
// failure the ledger is restored exactly as it was before the call.
func (s *Store) DeleteLedgerEntry(ctx context.Context, entryID string) error {
	if id.IsLocal(entryID) {
		return fmt.Errorf("delete ledger entry %s: %w", entryID, ErrPending)
	}

	var before []wealth.Entry
	_, err := runTxn(ctx, s, Txn[struct{}]{
		Op: "delete_entry",
		Apply: func() error {
			i := slices.IndexFunc(s.ledger, func(x wealth.Entry) bool { return x.ID == entryID })
			if i < 0 {
				return fmt.Errorf("entry %s: %w", entryID, gateway.ErrNotFound)
			}
			before = s.ledger
			s.ledger = slices.Delete(slices.Clone(s.ledger), i, i+1)
			return nil
		},
		Remote: func(ctx context.Context) (struct{}, error) {
			err := s.gw.DeleteEntry(ctx, entryID)
			// Already gone remotely is what we wanted.
			if errors.Is(err, gateway.ErrNotFound) {
				err = nil
			}
			return struct{}{}, err
		},
		Rollback: func() {
			s.ledger = before
		},
	})
	if err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}

// ClearLedger empties the ledger locally and remotely, restoring it if the
// remote delete fails.
func (s *Store) ClearLedger(ctx context.Context) error {
	sess, err := s.session(ctx)
	if err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	var before []wealth.Entry
	_, err = runTxn(ctx, s, Txn[struct{}]{
		Op: "clear_ledger",
		Apply: func() error {
			before = s.ledger
			s.ledger = nil
			return nil
		},
		Remote: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gw.DeleteEntries(ctx, sess.IdentityID)
		},
		Rollback: func() {
			s.ledger = before
		},
	})
	if err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}
