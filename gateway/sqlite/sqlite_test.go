package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/wealth"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestSQLite(t)
	assert.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	for _, table := range []string{"profiles", "ledger_entries", "advisory_cards", "read_marks"} {
		assert.True(t, found[table], table)
	}
}

func TestSQLiteProfileRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, gateway.ErrNotFound)

	p := wealth.Profile{
		IdentityID:     "u1",
		Name:           "ada",
		FinancialScore: 72,
		RiskTolerance:  wealth.Aggressive,
		Grid:           wealth.Grid{Emergency: 15, Daily: 30, Investment: 30, Growth: 25},
		Answers:        wealth.Answers{"age_stage": "23-28", "liquid_assets": 30000.0},
		Onboarded:      true,
		UpdatedAt:      time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	require.NoError(t, s.UpsertProfile(ctx, p))

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.FinancialScore, got.FinancialScore)
	assert.Equal(t, p.RiskTolerance, got.RiskTolerance)
	assert.Equal(t, p.Grid, got.Grid)
	assert.Equal(t, p.Answers, got.Answers)
	assert.True(t, got.Onboarded)
	assert.True(t, got.UpdatedAt.Equal(p.UpdatedAt))

	p.Onboarded = false
	require.NoError(t, s.UpsertProfile(ctx, p))
	got, err = s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, got.Onboarded)
}

func TestSQLiteLedger(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	older := wealth.Entry{
		ID:         "local-1",
		IdentityID: "u1",
		Kind:       wealth.Income,
		Amount:     decimal.RequireFromString("1500.50"),
		Bucket:     wealth.Daily,
		Category:   "salary",
		Time:       time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	newer := wealth.Entry{
		IdentityID: "u1",
		Kind:       wealth.Expense,
		Amount:     decimal.RequireFromString("4.20"),
		Bucket:     wealth.Daily,
		Category:   "coffee",
		Note:       "flat white",
		Time:       time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
	}
	other := newer
	other.IdentityID = "u2"

	created, err := s.CreateEntry(ctx, older)
	require.NoError(t, err)
	assert.NotEqual(t, "local-1", created.ID)
	assert.True(t, created.SameContent(older))

	_, err = s.CreateEntry(ctx, newer)
	require.NoError(t, err)
	_, err = s.CreateEntry(ctx, other)
	require.NoError(t, err)

	list, err := s.ListEntries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "coffee", list[0].Category)
	assert.Equal(t, "flat white", list[0].Note)
	assert.Equal(t, "4.20", list[0].Amount.StringFixed(2))
	assert.Equal(t, created.ID, list[1].ID)

	require.NoError(t, s.DeleteEntry(ctx, created.ID))
	assert.ErrorIs(t, s.DeleteEntry(ctx, created.ID), gateway.ErrNotFound)

	require.NoError(t, s.DeleteEntries(ctx, "u1"))
	list, err = s.ListEntries(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.ListEntries(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLiteCardsAndReadMarks(t *testing.T) {
	t.Parallel()

	s, _ := newTestSQLite(t)
	ctx := context.Background()

	card := wealth.Card{
		ID:        "g1",
		Title:     "Coffee adds up",
		Concept:   "latte factor",
		Body:      "Twenty coffees a month is a phone a year.",
		Tags:      []string{"habits"},
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateCard(ctx, "u1", card))
	assert.ErrorIs(t, s.CreateCard(ctx, "u1", card), gateway.ErrConflict)
	require.NoError(t, s.CreateCard(ctx, "u2", card))

	cards, err := s.ListCards(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, wealth.Generated, cards[0].Origin)
	assert.Equal(t, []string{"habits"}, cards[0].Tags)

	require.NoError(t, s.MarkRead(ctx, "u1", "k1"))
	assert.ErrorIs(t, s.MarkRead(ctx, "u1", "k1"), gateway.ErrConflict)
	require.NoError(t, s.MarkRead(ctx, "u1", "g1"))

	marks, err := s.ListReadMarks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "k1"}, marks)
}
