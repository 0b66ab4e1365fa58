package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/identity"
	"github.com/rustyeddy/wealthgrid/internal/metrics"
	"github.com/rustyeddy/wealthgrid/internal/retry"
	"github.com/rustyeddy/wealthgrid/knowledge"
	"github.com/rustyeddy/wealthgrid/wealth"
)

// Collection names a remotely backed part of the snapshot.
type Collection string

const (
	ProfileCollection Collection = "profile"
	LedgerCollection  Collection = "ledger"
	CardsCollection   Collection = "cards"
)

// State is where a collection's last fetch got to.
type State string

const (
	Idle          State = "idle"
	Fetching      State = "fetching"
	Loaded        State = "loaded"
	NotFoundRetry State = "not_found_retry"
	Failed        State = "failed"
)

// errStale means the snapshot was dropped while a fetch was in flight.
var errStale = errors.New("snapshot changed during fetch")

func (s *Store) Status(c Collection) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.status[c]; ok {
		return st
	}
	return Idle
}

func (s *Store) setStatus(c Collection, st State) {
	s.mu.Lock()
	s.status[c] = st
	s.mu.Unlock()
	s.log.Debug("fetch state", zap.String("collection", string(c)), zap.String("state", string(st)))
}

func (s *Store) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// FetchProfile loads the signed-in user's profile. Only one profile fetch
// runs at a time; a call made while another is in flight returns nil at
// once. A profile that stays not-found through the retry schedule is a new
// user and gets a default profile. Loading an existing profile also starts
// ledger and card fetches in the background.
func (s *Store) FetchProfile(ctx context.Context) error {
	if !s.fetching.CompareAndSwap(false, true) {
		s.metrics.Fetch(string(ProfileCollection), metrics.Suppressed, 0)
		return nil
	}
	defer s.fetching.Store(false)

	for {
		err := s.fetchProfile(ctx, s.currentEpoch())
		if !errors.Is(err, errStale) {
			return err
		}
		s.log.Debug("identity changed during profile fetch, fetching again")
	}
}

func (s *Store) fetchProfile(ctx context.Context, epoch uint64) error {
	start := time.Now()
	elapsed := func() float64 { return time.Since(start).Seconds() }
	s.setStatus(ProfileCollection, Fetching)

	sess, err := s.idp.Current(ctx)
	if err != nil {
		s.setStatus(ProfileCollection, Failed)
		s.metrics.Fetch(string(ProfileCollection), metrics.Failed, elapsed())
		return fmt.Errorf("fetch profile: %w", err)
	}
	if sess == nil {
		s.mu.Lock()
		s.profile = nil
		s.status[ProfileCollection] = Loaded
		s.mu.Unlock()
		s.metrics.Fetch(string(ProfileCollection), metrics.OK, elapsed())
		return nil
	}

	policy := s.retry
	policy.Retryable = func(err error) bool { return errors.Is(err, gateway.ErrNotFound) }
	policy.OnAttempt = func(n int) {
		s.metrics.FetchAttempt(string(ProfileCollection))
		if n > 1 {
			s.setStatus(ProfileCollection, NotFoundRetry)
		}
	}
	p, attempts, err := retry.Do(ctx, policy, func(ctx context.Context) (wealth.Profile, error) {
		return s.gw.GetProfile(ctx, sess.IdentityID)
	})

	found := err == nil
	if err != nil && !errors.Is(err, gateway.ErrNotFound) {
		s.setStatus(ProfileCollection, Failed)
		s.metrics.Fetch(string(ProfileCollection), metrics.Failed, elapsed())
		return fmt.Errorf("fetch profile: %w", err)
	}
	if !found {
		s.log.Info("no profile on record, starting as new user",
			zap.String("identity", sess.IdentityID), zap.Int("attempts", attempts))
		p = wealth.NewUserProfile(sess.IdentityID, sess.DisplayName())
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return errStale
	}
	s.profile = &p
	s.status[ProfileCollection] = Loaded
	if !found {
		s.ledger = nil
		s.cards = knowledge.Catalog()
		s.read = wealth.NewReadSet()
		s.status[LedgerCollection] = Loaded
		s.status[CardsCollection] = Loaded
	}
	s.mu.Unlock()

	if !found {
		s.metrics.Fetch(string(ProfileCollection), metrics.NotFound, elapsed())
		return nil
	}
	s.metrics.Fetch(string(ProfileCollection), metrics.OK, elapsed())

	s.spawn(ctx, func(ctx context.Context) {
		if err := s.FetchLedger(ctx); err != nil {
			s.log.Warn("ledger fetch failed", zap.Error(err))
		}
	})
	s.spawn(ctx, func(ctx context.Context) {
		if err := s.FetchCards(ctx); err != nil {
			s.log.Warn("card fetch failed", zap.Error(err))
		}
	})
	return nil
}

// FetchLedger replaces the ledger with the gateway's copy.
func (s *Store) FetchLedger(ctx context.Context) error {
	epoch := s.currentEpoch()
	start := time.Now()
	sess, err := s.session(ctx)
	if err != nil {
		return fmt.Errorf("fetch ledger: %w", err)
	}

	s.setStatus(LedgerCollection, Fetching)
	s.metrics.FetchAttempt(string(LedgerCollection))
	entries, err := s.gw.ListEntries(ctx, sess.IdentityID)
	if err != nil {
		s.setStatus(LedgerCollection, Failed)
		s.metrics.Fetch(string(LedgerCollection), metrics.Failed, time.Since(start).Seconds())
		return fmt.Errorf("fetch ledger: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return nil
	}
	s.ledger = entries
	s.status[LedgerCollection] = Loaded
	s.mu.Unlock()

	s.metrics.Fetch(string(LedgerCollection), metrics.OK, time.Since(start).Seconds())
	s.log.Debug("ledger loaded", zap.Int("entries", len(entries)))
	return nil
}

// FetchCards replaces the card list with the user's generated cards
// followed by the curated catalog, and the read set with the gateway's
// read marks.
func (s *Store) FetchCards(ctx context.Context) error {
	epoch := s.currentEpoch()
	start := time.Now()
	sess, err := s.session(ctx)
	if err != nil {
		return fmt.Errorf("fetch cards: %w", err)
	}

	s.setStatus(CardsCollection, Fetching)
	fail := func(err error) error {
		s.setStatus(CardsCollection, Failed)
		s.metrics.Fetch(string(CardsCollection), metrics.Failed, time.Since(start).Seconds())
		return fmt.Errorf("fetch cards: %w", err)
	}

	s.metrics.FetchAttempt(string(CardsCollection))
	generated, err := s.gw.ListCards(ctx, sess.IdentityID)
	if err != nil {
		return fail(err)
	}
	marks, err := s.gw.ListReadMarks(ctx, sess.IdentityID)
	if err != nil {
		return fail(err)
	}

	cards := make([]wealth.Card, 0, len(generated)+len(knowledge.Catalog()))
	for _, c := range generated {
		if knowledge.IsCurated(c.ID) {
			continue
		}
		cards = append(cards, c)
	}
	cards = append(cards, knowledge.Catalog()...)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return nil
	}
	s.cards = cards
	s.read = wealth.NewReadSet(marks...)
	s.status[CardsCollection] = Loaded
	s.mu.Unlock()

	s.metrics.Fetch(string(CardsCollection), metrics.OK, time.Since(start).Seconds())
	return nil
}

// Refresh fetches the profile and waits for the cascaded fetches and any
// pending background writes.
func (s *Store) Refresh(ctx context.Context) error {
	err := s.FetchProfile(ctx)
	s.Wait()
	return err
}

// Start follows identity transitions until stop is called. Signing out, or
// signing in as someone else, drops the snapshot; signing in fetches the
// new user's data.
func (s *Store) Start(ctx context.Context) (stop func()) {
	return s.idp.Subscribe(func(sess *identity.Session) {
		s.onSession(ctx, sess)
	})
}

func (s *Store) onSession(ctx context.Context, sess *identity.Session) {
	s.mu.Lock()
	if sess == nil || s.profile == nil || s.profile.IdentityID != sess.IdentityID {
		s.reset()
	}
	s.mu.Unlock()

	if sess == nil {
		s.log.Info("signed out, snapshot cleared")
		return
	}
	s.spawn(ctx, func(ctx context.Context) {
		if err := s.FetchProfile(ctx); err != nil {
			s.log.Warn("profile fetch after sign-in failed", zap.Error(err))
		}
	})
}
