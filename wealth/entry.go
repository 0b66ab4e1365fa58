package wealth

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidEntry = errors.New("invalid ledger entry")

// InitialAllocation is the category carried by seed entries. Its presence in a
// ledger means seeding already happened.
const InitialAllocation = "initial allocation"

// Entry is one ledger record. Entries are never edited, only deleted.
type Entry struct {
	ID         string          `json:"id"`
	IdentityID string          `json:"user_id"`
	Kind       Kind            `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Bucket     Bucket          `json:"bucket"`
	Category   string          `json:"category"`
	Note       string          `json:"note,omitempty"`
	Time       time.Time       `json:"date"`
}

// Normalize rounds the amount to cents and defaults the bucket of an income
// entry to Daily. It then validates the result.
func (e Entry) Normalize() (Entry, error) {
	e.Amount = e.Amount.Round(2)
	if e.Kind == Income && e.Bucket == "" {
		e.Bucket = Daily
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: kind %q", ErrInvalidEntry, e.Kind)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidEntry, e.Amount.StringFixed(2))
	}
	if !e.Bucket.Valid() {
		return fmt.Errorf("%w: bucket %q", ErrInvalidEntry, e.Bucket)
	}
	return nil
}

// Signed returns the amount as it affects its bucket's balance.
func (e Entry) Signed() decimal.Decimal {
	if e.Kind == Expense {
		return e.Amount.Neg()
	}
	return e.Amount
}

// SameContent compares everything except the identifier.
func (e Entry) SameContent(o Entry) bool {
	return e.IdentityID == o.IdentityID &&
		e.Kind == o.Kind &&
		e.Amount.Equal(o.Amount) &&
		e.Bucket == o.Bucket &&
		e.Category == o.Category &&
		e.Note == o.Note &&
		e.Time.Equal(o.Time)
}
