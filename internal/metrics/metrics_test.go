package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New("wg")
	m.Optimistic("add_entry", RolledBack)
	m.Optimistic("add_entry", RolledBack)
	m.Fetch("profile", OK, 0.01)
	m.FetchAttempt("profile")
	m.Persist("profile_upsert", TimedOut)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.optimistic.WithLabelValues("add_entry", RolledBack)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("profile", OK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persists.WithLabelValues("profile_upsert", TimedOut)))

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `wg_optimistic_mutations_total{op="add_entry",outcome="rolled_back"} 2`)
	assert.Contains(t, buf.String(), `wg_fetch_duration_seconds{collection="profile"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Optimistic("x", OK)
		m.Fetch("x", OK, 0)
		m.FetchAttempt("x")
		m.Persist("x", OK)
	})
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("wg")
		New("wg")
	})
}
