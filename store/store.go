// Package store keeps the in-process view of one user's wealth data and
// synchronises it with a remote gateway.
//
// Every mutation is applied to the local snapshot first, under the store's
// lock and before any network call, and then confirmed or rolled back.
// Readers always get copies.
package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/wealthgrid/advisor"
	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/identity"
	"github.com/rustyeddy/wealthgrid/internal/metrics"
	"github.com/rustyeddy/wealthgrid/internal/retry"
	"github.com/rustyeddy/wealthgrid/wealth"
)

var (
	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("no signed-in user")
	// ErrNoProfile is returned when the profile has not been loaded yet.
	ErrNoProfile = errors.New("profile not loaded")
	// ErrPending is returned when deleting an entry the gateway has not
	// confirmed yet.
	ErrPending = errors.New("entry not confirmed yet")
)

const (
	DefaultPersistTimeout = 15 * time.Second
	DefaultAdvisorTimeout = 10 * time.Second
)

// DefaultRetry is the profile fetch schedule: three reads, 0, 500ms and 1s
// apart, to ride out read-after-write lag on new accounts.
func DefaultRetry() retry.Policy {
	return retry.Policy{
		Attempts: 3,
		Delays:   retry.Linear(3, 500*time.Millisecond),
	}
}

type Store struct {
	gw  gateway.Gateway
	idp identity.Provider
	adv advisor.Advisor

	log            *zap.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
	persistTimeout time.Duration
	advisorTimeout time.Duration
	retry          retry.Policy

	mu      sync.RWMutex
	epoch   uint64 // bumped whenever the snapshot is dropped
	profile *wealth.Profile
	ledger  []wealth.Entry
	cards   []wealth.Card
	read    wealth.ReadSet
	status  map[Collection]State

	fetching atomic.Bool
	wg       sync.WaitGroup
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPersistTimeout bounds every background write and cascaded fetch.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// WithAdvisorTimeout bounds each advisory call before the deterministic
// fallback is used.
func WithAdvisorTimeout(d time.Duration) Option {
	return func(s *Store) { s.advisorTimeout = d }
}

// WithRetry replaces the profile fetch schedule. The store always decides
// itself which errors are retried.
func WithRetry(p retry.Policy) Option {
	return func(s *Store) { s.retry = p }
}

// New returns an empty store. adv may be nil, in which case the
// deterministic calculator and the curated catalog are always used.
func New(gw gateway.Gateway, idp identity.Provider, adv advisor.Advisor, opts ...Option) *Store {
	s := &Store{
		gw:             gw,
		idp:            idp,
		adv:            adv,
		log:            zap.NewNop(),
		now:            time.Now,
		persistTimeout: DefaultPersistTimeout,
		advisorTimeout: DefaultAdvisorTimeout,
		retry:          DefaultRetry(),
		read:           wealth.NewReadSet(),
		status:         make(map[Collection]State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the loaded profile. ok is false when nobody is signed in
// or the profile has not been fetched.
func (s *Store) Profile() (p wealth.Profile, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return wealth.Profile{}, false
	}
	return s.profile.Clone(), true
}

// Ledger returns the entries newest first.
func (s *Store) Ledger() []wealth.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ledger)
}

func (s *Store) Cards() []wealth.Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]wealth.Card, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.Clone()
	}
	return out
}

func (s *Store) IsRead(cardID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read.Has(cardID)
}

func (s *Store) ReadSet() wealth.ReadSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return wealth.NewReadSet(s.read.IDs()...)
}

func (s *Store) Balances() wealth.Balances {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return wealth.ComputeActualBalances(s.ledger)
}

// Allocation compares the ledger with the profile's grid, or with the
// default grid when no profile is loaded.
func (s *Store) Allocation() []wealth.Allocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := wealth.DefaultGrid
	if s.profile != nil {
		g = s.profile.Grid
	}
	return wealth.CompareGrid(g, wealth.ComputeActualBalances(s.ledger))
}

// Wait blocks until background persistence and cascaded fetches finish,
// including writes that have already been reported as timed out.
func (s *Store) Wait() {
	s.wg.Wait()
}

// session returns the signed-in user or ErrNoSession.
func (s *Store) session(ctx context.Context) (*identity.Session, error) {
	sess, err := s.idp.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNoSession
	}
	return sess, nil
}

// reset drops the whole snapshot. Callers hold the lock.
func (s *Store) reset() {
	s.epoch++
	s.profile = nil
	s.ledger = nil
	s.cards = nil
	s.read = wealth.NewReadSet()
	for c := range s.status {
		s.status[c] = Idle
	}
}

// spawn runs fn in a tracked goroutine with a context that outlives the
// caller's but is bounded by the persist timeout.
func (s *Store) spawn(ctx context.Context, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// persist runs a best-effort background write. Whichever comes first, the
// write's own result or the timeout, is the outcome. Neither is escalated.
// A write still running at the timeout stays counted by Wait until it
// returns, so nothing closes the gateway under it.
func (s *Store) persist(ctx context.Context, op string, fn func(ctx context.Context) error) {
	s.spawn(ctx, func(ctx context.Context) {
		done := make(chan error, 1)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			done <- fn(ctx)
		}()

		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}

		switch {
		case err == nil:
			s.metrics.Persist(op, metrics.OK)
		case errors.Is(err, context.DeadlineExceeded):
			s.metrics.Persist(op, metrics.TimedOut)
			s.log.Warn("background write timed out", zap.String("op", op), zap.Duration("timeout", s.persistTimeout))
		default:
			s.metrics.Persist(op, metrics.Failed)
			s.log.Warn("background write failed", zap.String("op", op), zap.Error(err))
		}
	})
}
