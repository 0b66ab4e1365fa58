package sqlite

import (
	"context"
	"fmt"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/pkg/id"
	"github.com/rustyeddy/wealthgrid/wealth"
)

// ListEntries returns the identity's ledger, newest first.
func (s *SQLite) ListEntries(ctx context.Context, identityID string) ([]wealth.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, bucket, category, note, date
		FROM ledger_entries
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`, identityID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []wealth.Entry
	for rows.Next() {
		var e wealth.Entry
		if err := rows.Scan(
			&e.ID,
			&e.IdentityID,
			&e.Kind,
			&e.Amount,
			&e.Bucket,
			&e.Category,
			&e.Note,
			&e.Time,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEntry stores e under a server-issued id and returns the stored row.
// Dates are kept in UTC so that the text column sorts chronologically.
func (s *SQLite) CreateEntry(ctx context.Context, e wealth.Entry) (wealth.Entry, error) {
	e.ID = id.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries
		(id, user_id, type, amount, bucket, category, note, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.IdentityID, string(e.Kind), e.Amount.StringFixed(2),
		string(e.Bucket), e.Category, e.Note, e.Time.UTC(),
	)
	if err != nil {
		return wealth.Entry{}, classify(err)
	}
	return e, nil
}

func (s *SQLite) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = ?`, entryID)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", entryID, gateway.ErrNotFound)
	}
	return nil
}

func (s *SQLite) DeleteEntries(ctx context.Context, identityID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE user_id = ?`, identityID)
	return classify(err)
}
