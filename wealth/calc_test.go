package wealth

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTargetGrid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answers Answers
		want    Grid
	}{
		{"no answers", nil, DefaultGrid},
		{"student age", Answers{QAgeStage: "18-22"}, Grid{10, 40, 10, 40}},
		{"early career age", Answers{QAgeStage: "23-28"}, Grid{15, 30, 30, 25}},
		{"older age", Answers{QAgeStage: "36-50"}, DefaultGrid},
		{"age wins over life stage", Answers{QAgeStage: "51-60", QLifeStage: "student"}, DefaultGrid},
		{"life stage student", Answers{QLifeStage: "student"}, Grid{10, 40, 10, 40}},
		{"life stage freshman", Answers{QLifeStage: "freshman"}, Grid{15, 30, 30, 25}},
		{"numeric age ignored", Answers{QAgeStage: 25}, DefaultGrid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeTargetGrid(tt.answers)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 100, got.Sum())
			assert.NoError(t, got.Validate())
		})
	}
}

func TestComputeTargetGridIsPure(t *testing.T) {
	a := Answers{QAgeStage: "18-22"}
	first := ComputeTargetGrid(a)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeTargetGrid(a))
	}
}

func TestGridValidate(t *testing.T) {
	assert.NoError(t, DefaultGrid.Validate())
	assert.ErrorIs(t, Grid{50, 50, 50, 50}.Validate(), ErrInvalidGrid)
	assert.ErrorIs(t, Grid{-10, 50, 50, 10}.Validate(), ErrInvalidGrid)
	assert.Equal(t, "20/15/50/15", DefaultGrid.String())
}

func TestComputeActualBalances(t *testing.T) {
	t.Parallel()

	ledger := []Entry{
		{Kind: Income, Amount: dec("1000"), Bucket: Daily},
		{Kind: Expense, Amount: dec("12.50"), Bucket: Daily},
		{Kind: Expense, Amount: dec("40"), Bucket: Growth},
		{Kind: Income, Amount: dec("300.25"), Bucket: Investment},
		{Kind: Income, Amount: dec("0.75"), Bucket: Investment},
	}

	got := ComputeActualBalances(ledger)
	require.Len(t, got, 4)
	assert.Equal(t, "987.50", got[Daily].StringFixed(2))
	assert.Equal(t, "-40.00", got[Growth].StringFixed(2))
	assert.Equal(t, "301.00", got[Investment].StringFixed(2))
	assert.True(t, got[Emergency].IsZero())
	assert.Equal(t, "1248.50", got.Total().StringFixed(2))
}

func TestComputeActualBalancesEmpty(t *testing.T) {
	got := ComputeActualBalances(nil)
	for _, b := range Buckets {
		assert.True(t, got[b].IsZero(), b)
	}
}

func TestCompareGrid(t *testing.T) {
	bal := Balances{
		Emergency:  dec("100"),
		Daily:      dec("300"),
		Investment: dec("500"),
		Growth:     dec("100"),
	}
	out := CompareGrid(DefaultGrid, bal)
	require.Len(t, out, 4)

	assert.Equal(t, Emergency, out[0].Bucket)
	assert.Equal(t, "200.00", out[0].Target.StringFixed(2))
	assert.Equal(t, "-100.00", out[0].Drift.StringFixed(2))
	assert.Equal(t, "150.00", out[1].Target.StringFixed(2))
	assert.Equal(t, "150.00", out[1].Drift.StringFixed(2))
}

func TestCompareGridNegativeTotal(t *testing.T) {
	out := CompareGrid(DefaultGrid, Balances{Daily: dec("-50")})
	for _, a := range out {
		assert.True(t, a.Target.IsZero())
	}
}

func TestRiskAndScore(t *testing.T) {
	assert.Equal(t, Conservative, RiskFromAnswers(Answers{QRiskChoice: "low"}))
	assert.Equal(t, Aggressive, RiskFromAnswers(Answers{QRiskChoice: "high"}))
	assert.Equal(t, Balanced, RiskFromAnswers(nil))

	assert.Equal(t, 50, ScoreLiteracy(nil))
	assert.Equal(t, 100, ScoreLiteracy(Answers{QOppCost: "expert", QNoFreeLunch: "cost"}))
	assert.Equal(t, 65, ScoreLiteracy(Answers{QOppCost: "heard", QNoFreeLunch: "literal"}))
}

func TestEntryNormalize(t *testing.T) {
	e, err := Entry{Kind: Income, Amount: dec("10.005")}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Daily, e.Bucket)
	assert.Equal(t, "10.01", e.Amount.StringFixed(2))

	_, err = Entry{Kind: Expense, Amount: dec("5")}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = Entry{Kind: Income, Amount: dec("-1"), Bucket: Daily}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidEntry)

	_, err = Entry{Kind: "refund", Amount: dec("1"), Bucket: Daily}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidEntry)
}

func TestEntrySameContent(t *testing.T) {
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	a := Entry{ID: "a", Kind: Expense, Amount: dec("3.50"), Bucket: Daily, Time: ts}
	b := a
	b.ID = "b"
	b.Amount = dec("3.5")
	assert.True(t, a.SameContent(b))

	b.Note = "coffee"
	assert.False(t, a.SameContent(b))
}

func TestParse(t *testing.T) {
	b, err := ParseBucket(" Growth ")
	require.NoError(t, err)
	assert.Equal(t, Growth, b)
	_, err = ParseBucket("fun")
	assert.Error(t, err)

	k, err := ParseKind("EXPENSE")
	require.NoError(t, err)
	assert.Equal(t, Expense, k)
	_, err = ParseKind("transfer")
	assert.Error(t, err)
}
