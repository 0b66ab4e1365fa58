package wealth

import (
	"time"

	"github.com/shopspring/decimal"
)

// Seeded reports whether the ledger already holds initial-allocation entries.
func Seeded(ledger []Entry) bool {
	for _, e := range ledger {
		if e.Category == InitialAllocation {
			return true
		}
	}
	return false
}

// SeedEntries splits a lump of liquid assets over the grid as one income
// entry per bucket. It returns nil when the ledger was seeded before, so that
// retaking the questionnaire never adds the same capital twice. Buckets whose
// share rounds to zero get no entry. IDs are left empty for the caller.
func SeedEntries(identityID string, liquid decimal.Decimal, g Grid, ledger []Entry, now time.Time) []Entry {
	if Seeded(ledger) || !liquid.IsPositive() {
		return nil
	}

	hundred := decimal.NewFromInt(100)
	var out []Entry
	for _, b := range Buckets {
		amount := liquid.Mul(decimal.NewFromInt(int64(g.Percent(b)))).Div(hundred).Round(2)
		if amount.IsZero() {
			continue
		}
		out = append(out, Entry{
			IdentityID: identityID,
			Kind:       Income,
			Amount:     amount,
			Bucket:     b,
			Category:   InitialAllocation,
			Time:       now,
		})
	}
	return out
}
