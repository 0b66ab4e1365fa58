package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/wealth"
)

const (
	tableProfiles  = "profiles"
	tableEntries   = "ledger_entries"
	tableCards     = "advisory_cards"
	tableReadMarks = "read_marks"
)

func (c *Client) GetProfile(ctx context.Context, identityID string) (wealth.Profile, error) {
	q := eq("id", identityID)
	q.Set("select", "*")

	var rows []wealth.Profile
	if err := c.do(ctx, request{method: http.MethodGet, table: tableProfiles, query: q}, &rows); err != nil {
		return wealth.Profile{}, err
	}
	if len(rows) == 0 {
		return wealth.Profile{}, fmt.Errorf("profile %s: %w", identityID, gateway.ErrNotFound)
	}
	return rows[0], nil
}

func (c *Client) UpsertProfile(ctx context.Context, p wealth.Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		table:  tableProfiles,
		body:   p,
		prefer: "resolution=merge-duplicates,return=minimal",
	}, nil)
}

// entryRow omits the id on insert so the server issues one.
type entryRow struct {
	ID string `json:"id,omitempty"`
	wealth.Entry
}

func (c *Client) ListEntries(ctx context.Context, identityID string) ([]wealth.Entry, error) {
	q := eq("user_id", identityID)
	q.Set("order", "date.desc")

	var rows []wealth.Entry
	if err := c.do(ctx, request{method: http.MethodGet, table: tableEntries, query: q}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) CreateEntry(ctx context.Context, e wealth.Entry) (wealth.Entry, error) {
	e.ID = ""
	row := entryRow{Entry: e}

	var rows []wealth.Entry
	err := c.do(ctx, request{
		method: http.MethodPost,
		table:  tableEntries,
		body:   row,
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return wealth.Entry{}, err
	}
	if len(rows) == 0 {
		return wealth.Entry{}, fmt.Errorf("create entry: empty representation")
	}
	return rows[0], nil
}

func (c *Client) DeleteEntry(ctx context.Context, entryID string) error {
	var rows []wealth.Entry
	err := c.do(ctx, request{
		method: http.MethodDelete,
		table:  tableEntries,
		query:  eq("id", entryID),
		prefer: "return=representation",
	}, &rows)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("entry %s: %w", entryID, gateway.ErrNotFound)
	}
	return nil
}

func (c *Client) DeleteEntries(ctx context.Context, identityID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		table:  tableEntries,
		query:  eq("user_id", identityID),
	}, nil)
}

type cardRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Concept   string    `json:"concept"`
	Content   string    `json:"content"`
	Action    string    `json:"action"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) ListCards(ctx context.Context, identityID string) ([]wealth.Card, error) {
	q := eq("user_id", identityID)
	q.Set("order", "created_at.desc")

	var rows []cardRow
	if err := c.do(ctx, request{method: http.MethodGet, table: tableCards, query: q}, &rows); err != nil {
		return nil, err
	}

	out := make([]wealth.Card, 0, len(rows))
	for _, r := range rows {
		out = append(out, wealth.Card{
			ID:        r.ID,
			Title:     r.Title,
			Concept:   r.Concept,
			Body:      r.Content,
			Action:    r.Action,
			Tags:      r.Tags,
			Origin:    wealth.Generated,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (c *Client) CreateCard(ctx context.Context, identityID string, card wealth.Card) error {
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		table:  tableCards,
		body: cardRow{
			ID:        card.ID,
			UserID:    identityID,
			Title:     card.Title,
			Concept:   card.Concept,
			Content:   card.Body,
			Action:    card.Action,
			Tags:      card.Tags,
			CreatedAt: card.CreatedAt,
		},
		prefer: "return=minimal",
	}, nil)
}

type readMarkRow struct {
	UserID string `json:"user_id"`
	CardID string `json:"card_id"`
}

func (c *Client) ListReadMarks(ctx context.Context, identityID string) ([]string, error) {
	q := eq("user_id", identityID)
	q.Set("select", "card_id")

	var rows []readMarkRow
	if err := c.do(ctx, request{method: http.MethodGet, table: tableReadMarks, query: q}, &rows); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.CardID)
	}
	return out, nil
}

// MarkRead inserts a read mark; the server answers 409 for duplicates.
func (c *Client) MarkRead(ctx context.Context, identityID, cardID string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		table:  tableReadMarks,
		body:   readMarkRow{UserID: identityID, CardID: cardID},
		prefer: "return=minimal",
	}, nil)
}
