// Package metrics counts what the wealth store does with the remote store.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	Committed  = "committed"
	RolledBack = "rolled_back"
	OK         = "ok"
	Failed     = "failed"
	TimedOut   = "timed_out"
	NotFound   = "not_found"
	Suppressed = "suppressed"
)

// Metrics holds the collectors on a private registry, so several stores can
// live in one process (and in tests) without clashing.
type Metrics struct {
	registry *prometheus.Registry

	optimistic    *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchAttempts *prometheus.CounterVec
	persists      *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		optimistic: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "optimistic_mutations_total",
				Help:      "Optimistic mutations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Collection fetches by collection and outcome",
			},
			[]string{"collection", "outcome"},
		),
		fetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_attempts_total",
				Help:      "Individual remote reads made by fetches, retries included",
			},
			[]string{"collection"},
		),
		persists: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "background_persists_total",
				Help:      "Best-effort background writes by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of collection fetches",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"collection"},
		),
	}
	m.registry.MustRegister(m.optimistic, m.fetches, m.fetchAttempts, m.persists, m.fetchDuration)
	return m
}

// The recording methods accept a nil receiver so callers need no guards.

func (m *Metrics) Optimistic(op, outcome string) {
	if m == nil {
		return
	}
	m.optimistic.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Fetch(collection, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(collection, outcome).Inc()
	m.fetchDuration.WithLabelValues(collection).Observe(seconds)
}

func (m *Metrics) FetchAttempt(collection string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(collection).Inc()
}

func (m *Metrics) Persist(op, outcome string) {
	if m == nil {
		return
	}
	m.persists.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText prints every counter sample as "name{labels} value", sorted.
// Histograms are summarised by their sample count.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, f := range families {
		for _, s := range f.GetMetric() {
			labels := ""
			for i, l := range s.GetLabel() {
				if i > 0 {
					labels += ","
				}
				labels += fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
			}
			var v float64
			switch {
			case s.GetCounter() != nil:
				v = s.GetCounter().GetValue()
			case s.GetHistogram() != nil:
				v = float64(s.GetHistogram().GetSampleCount())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", f.GetName(), labels, v))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
