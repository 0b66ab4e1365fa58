// Package gateway defines the remote record store the wealth store
// synchronises with. Implementations live in the sub-packages.
package gateway

import (
	"context"
	"errors"

	"github.com/rustyeddy/wealthgrid/wealth"
)

var (
	// ErrNotFound means the record does not exist, or is not visible yet.
	// It is the only error the profile fetch retries.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means an insert hit an existing record.
	ErrConflict = errors.New("record already exists")
)

// Gateway is CRUD access to the profile, ledger and advisory collections of
// one remote store. Any error other than ErrNotFound and ErrConflict is a
// transport failure.
type Gateway interface {
	GetProfile(ctx context.Context, identityID string) (wealth.Profile, error)
	UpsertProfile(ctx context.Context, p wealth.Profile) error

	// ListEntries returns the identity's ledger, newest first.
	ListEntries(ctx context.Context, identityID string) ([]wealth.Entry, error)
	// CreateEntry stores e and returns the stored record, which may carry a
	// different id than e.
	CreateEntry(ctx context.Context, e wealth.Entry) (wealth.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	DeleteEntries(ctx context.Context, identityID string) error

	// ListCards returns the identity's generated cards, newest first.
	ListCards(ctx context.Context, identityID string) ([]wealth.Card, error)
	CreateCard(ctx context.Context, identityID string, c wealth.Card) error

	ListReadMarks(ctx context.Context, identityID string) ([]string, error)
	MarkRead(ctx context.Context, identityID, cardID string) error
}

// IgnoreConflict maps ErrConflict to nil for insert-only writes where a
// duplicate means the work was already done.
func IgnoreConflict(err error) error {
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}
