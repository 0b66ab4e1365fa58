package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/wealthgrid/config"
	"github.com/rustyeddy/wealthgrid/wealth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func sqliteConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Gateway.DBPath = filepath.Join(dir, "grid.sqlite")
	cfg.Store.RetryStep = "1ms"
	cfg.Log.Level = "error"
	path := filepath.Join(dir, "wealthgrid.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	out, err := run(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = run(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Gateway: sqlite")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "wealthgrid version "+version)
}

func TestOnboardLedgerAndBalances(t *testing.T) {
	cfg := sqliteConfig(t)

	// 100000 is the top range option, seeded at its lower bound of 120000.
	out, err := run(t, "--config", cfg, "onboard", "--set", "liquid_assets=100000")
	require.NoError(t, err)
	assert.Contains(t, out, "20/15/50/15")
	assert.Contains(t, out, "60000.00")

	out, err = run(t, "--config", cfg, "ledger", "add", "--amount", "12.5", "--bucket", "daily", "--category", "coffee")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded expense 12.50 in daily")

	out, err = run(t, "--config", cfg, "balances")
	require.NoError(t, err)
	assert.Contains(t, out, "119987.50")

	out, err = run(t, "--config", cfg, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Onboarded:  true")
	assert.Contains(t, out, "Name:       me")

	// Retaking onboarding keeps the seed capital as it was.
	out, err = run(t, "--config", cfg, "onboard", "--set", "liquid_assets=5")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded on an earlier onboarding")

	out, err = run(t, "--config", cfg, "ledger", "export")
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 6)
	assert.Equal(t, "amount", recs[0][4])
	assert.Equal(t, "12.50", recs[1][4], "newest first")
}

func TestLedgerClearNeedsConfirmation(t *testing.T) {
	cfg := sqliteConfig(t)
	_, err := run(t, "--config", cfg, "ledger", "clear")
	assert.ErrorContains(t, err, "--yes")
}

func TestCardsReadUnknown(t *testing.T) {
	cfg := sqliteConfig(t)
	_, err := run(t, "--config", cfg, "cards", "read", "nope")
	assert.Error(t, err)
}

func TestReadAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("age_stage: 18-22\nliquid_assets: 30000\n"), 0600))

	answers, err := readAnswers(path, []string{"liquid_assets=10000", " risk_choice = high "})
	require.NoError(t, err)
	assert.Equal(t, "18-22", answers.String(wealth.QAgeStage))
	assert.Equal(t, "10000", answers[wealth.QLiquidAssets], "--set wins over the file")
	assert.Equal(t, "high", answers.String(wealth.QRiskChoice))

	// A number in the file is an exact amount even when it matches a range option.
	fromFile, err := readAnswers(path, nil)
	require.NoError(t, err)
	liquid, ok := wealth.ResolveLiquidAssets(fromFile[wealth.QLiquidAssets])
	require.True(t, ok)
	assert.Equal(t, "30000.00", liquid.StringFixed(2))

	_, err = readAnswers("", []string{"novalue"})
	assert.Error(t, err)
	_, err = readAnswers(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		amount  string
		bucket  string
		date    string
		wantErr bool
	}{
		{"expense", "expense", "9.99", "growth", "", false},
		{"income without bucket", "income", "100", "", "2026-01-31", false},
		{"bad kind", "transfer", "1", "daily", "", true},
		{"bad amount", "expense", "ten", "daily", "", true},
		{"bad bucket", "expense", "1", "savings", "", true},
		{"bad date", "expense", "1", "daily", "31/01/2026", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := parseEntry(tt.kind, tt.amount, tt.bucket, "cat", "", tt.date)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, wealth.Kind(tt.kind), e.Kind)
			assert.True(t, e.Amount.Equal(decimal.RequireFromString(tt.amount)))
			if tt.date != "" {
				assert.Equal(t, 31, e.Time.Day())
			}
		})
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	err := writeLedgerCSV(&buf, []wealth.Entry{{
		ID:       "01J0",
		Kind:     wealth.Income,
		Amount:   decimal.RequireFromString("7"),
		Bucket:   wealth.Growth,
		Category: "gift, birthday",
		Time:     at,
	}})
	require.NoError(t, err)
	assert.Equal(t,
		"id,date,type,bucket,amount,category,note\n01J0,2026-02-03T04:05:06Z,income,growth,7.00,\"gift, birthday\",\n",
		buf.String())
}
