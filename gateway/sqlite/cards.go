package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/wealthgrid/wealth"
)

func (s *SQLite) ListCards(ctx context.Context, identityID string) ([]wealth.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, concept, content, action, tags, created_at
		FROM advisory_cards
		WHERE user_id = ?
		ORDER BY created_at DESC`, identityID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []wealth.Card
	for rows.Next() {
		var (
			c    wealth.Card
			tags string
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Concept, &c.Body, &c.Action, &tags, &c.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of card %s: %w", c.ID, err)
		}
		c.Origin = wealth.Generated
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCard inserts a generated card. A second insert of the same id for
// the same identity fails with gateway.ErrConflict.
func (s *SQLite) CreateCard(ctx context.Context, identityID string, c wealth.Card) error {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO advisory_cards
		(id, user_id, title, concept, content, action, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, identityID, c.Title, c.Concept, c.Body, c.Action, string(tags), c.CreatedAt,
	)
	return classify(err)
}

func (s *SQLite) ListReadMarks(ctx context.Context, identityID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT card_id FROM read_marks WHERE user_id = ? ORDER BY card_id`, identityID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLite) MarkRead(ctx context.Context, identityID, cardID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO read_marks (user_id, card_id, read_at) VALUES (?, ?, ?)`,
		identityID, cardID, s.now().UTC(),
	)
	return classify(err)
}
