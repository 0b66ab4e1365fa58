package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/wealth"
)

func TestMemoryEntriesNewestFirst(t *testing.T) {
	m := New()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := m.CreateEntry(ctx, wealth.Entry{
			IdentityID: "u1",
			Kind:       wealth.Income,
			Amount:     decimal.NewFromInt(int64(i + 1)),
			Bucket:     wealth.Daily,
			Time:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := m.ListEntries(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "3", list[0].Amount.String())
	assert.Equal(t, "1", list[2].Amount.String())
	assert.Equal(t, 3, m.Calls(CreateEntry))
}

func TestMemoryFaults(t *testing.T) {
	m := New()
	ctx := context.Background()
	boom := errors.New("boom")

	m.Fail(GetProfile, boom)
	_, err := m.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, boom)

	m.Fail(GetProfile, nil)
	_, err = m.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.Equal(t, 2, m.Calls(GetProfile))
}

func TestMemoryHook(t *testing.T) {
	m := New()
	var seen []Op
	m.SetHook(func(ctx context.Context, op Op) error {
		seen = append(seen, op)
		return nil
	})
	_, _ = m.ListCards(context.Background(), "u1")
	_ = m.MarkRead(context.Background(), "u1", "k1")
	assert.Equal(t, []Op{ListCards, MarkRead}, seen)
}

func TestMemoryConflicts(t *testing.T) {
	m := New()
	ctx := context.Background()

	require.NoError(t, m.MarkRead(ctx, "u1", "k1"))
	assert.ErrorIs(t, m.MarkRead(ctx, "u1", "k1"), gateway.ErrConflict)

	c := wealth.Card{ID: "g1", Title: "t"}
	require.NoError(t, m.CreateCard(ctx, "u1", c))
	assert.ErrorIs(t, m.CreateCard(ctx, "u1", c), gateway.ErrConflict)

	marks, err := m.ListReadMarks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, marks)
}

func TestMemoryCancelledContext(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.ListEntries(ctx, "u1")
	assert.ErrorIs(t, err, context.Canceled)
}
