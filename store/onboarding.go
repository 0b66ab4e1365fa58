package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/wealthgrid/pkg/id"
	"github.com/rustyeddy/wealthgrid/wealth"
)

// CompleteOnboarding turns questionnaire answers into a profile and, the
// first time, seed ledger entries for the user's liquid assets. It returns
// once the local snapshot holds both. Saving them remotely happens in the
// background and never undoes the local change.
//
// Seeding is decided against a loaded ledger only. When the ledger has not
// been loaded it is fetched first; if that fails the profile is still
// completed but nothing is seeded.
func (s *Store) CompleteOnboarding(ctx context.Context, answers wealth.Answers) (wealth.Profile, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return wealth.Profile{}, fmt.Errorf("complete onboarding: %w", err)
	}
	answers = answers.Clone()
	if answers == nil {
		answers = wealth.Answers{}
	}

	grid, analysis := s.targetGrid(ctx, answers)
	liquid, _ := wealth.ResolveLiquidAssets(answers[wealth.QLiquidAssets])
	now := s.now()

	if s.Status(LedgerCollection) != Loaded {
		if err := s.FetchLedger(ctx); err != nil {
			s.log.Warn("ledger not loaded, skipping initial allocation", zap.Error(err))
		}
	}

	s.mu.Lock()
	p := wealth.NewUserProfile(sess.IdentityID, sess.DisplayName())
	if s.profile != nil && s.profile.IdentityID == sess.IdentityID {
		p = s.profile.Clone()
	}
	p.Grid = grid
	p.Answers = answers
	p.FinancialScore = wealth.ScoreLiteracy(answers)
	p.RiskTolerance = wealth.RiskFromAnswers(answers)
	p.Onboarded = true
	p.UpdatedAt = now

	var seeds []wealth.Entry
	if s.status[LedgerCollection] == Loaded {
		seeds = wealth.SeedEntries(sess.IdentityID, liquid, grid, s.ledger, now)
	}
	for i := range seeds {
		seeds[i].ID = id.NewLocal()
	}
	s.profile = &p
	if len(seeds) > 0 {
		s.ledger = append(slices.Clone(seeds), s.ledger...)
	}
	epoch := s.epoch
	s.status[ProfileCollection] = Loaded
	s.mu.Unlock()

	s.log.Info("onboarding complete",
		zap.String("grid", grid.String()),
		zap.Int("seed_entries", len(seeds)),
		zap.Bool("advised", analysis != ""))

	saved := p.Clone()
	s.persist(ctx, "profile_upsert", func(ctx context.Context) error {
		return s.gw.UpsertProfile(ctx, saved)
	})
	for _, seed := range seeds {
		s.persist(ctx, "seed_entry", func(ctx context.Context) error {
			req := seed
			req.ID = ""
			got, err := s.gw.CreateEntry(ctx, req)
			if err != nil {
				return err
			}
			s.mu.Lock()
			if s.epoch == epoch {
				s.replaceEntryLocked(seed.ID, got)
			}
			s.mu.Unlock()
			return nil
		})
	}

	if analysis != "" {
		s.AddAdvisoryCard(ctx, analysisCard(sess.IdentityID, answers, grid, analysis, now))
	}
	return p.Clone(), nil
}

// targetGrid prefers the advisor's grid and falls back to the calculator
// when the advisor is absent, errors, times out or proposes an invalid grid.
func (s *Store) targetGrid(ctx context.Context, answers wealth.Answers) (wealth.Grid, string) {
	fallback := wealth.ComputeTargetGrid(answers)
	if s.adv == nil {
		return fallback, ""
	}

	actx, cancel := context.WithTimeout(ctx, s.advisorTimeout)
	defer cancel()
	alloc, err := s.adv.AllocateGrid(actx, answers)
	if err == nil {
		err = alloc.Grid.Validate()
	}
	if err != nil {
		s.log.Warn("advisor allocation unavailable, using calculator", zap.Error(err))
		return fallback, ""
	}
	return alloc.Grid, alloc.Analysis
}

func analysisCard(identityID string, answers wealth.Answers, g wealth.Grid, analysis string, now time.Time) wealth.Card {
	// encoding/json sorts map keys, which makes the hash input canonical.
	raw, _ := json.Marshal(answers)
	return wealth.Card{
		ID:        cardID("analysis", identityID, string(raw)),
		Title:     "Your wealth grid",
		Concept:   "Allocation",
		Body:      analysis,
		Tags:      []string{"onboarding", g.String()},
		Origin:    wealth.Generated,
		CreatedAt: now,
	}
}

// ResetOnboarding clears the onboarded flag so the questionnaire can be
// taken again. Answers, grid and ledger are kept; the seeder will not run a
// second time.
func (s *Store) ResetOnboarding(ctx context.Context) error {
	var before, after wealth.Profile
	_, err := runTxn(ctx, s, Txn[struct{}]{
		Op: "reset_onboarding",
		Apply: func() error {
			if s.profile == nil {
				return ErrNoProfile
			}
			before = s.profile.Clone()
			after = s.profile.Clone()
			after.Onboarded = false
			after.UpdatedAt = s.now()
			p := after.Clone()
			s.profile = &p
			return nil
		},
		Remote: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gw.UpsertProfile(ctx, after)
		},
		Rollback: func() {
			p := before
			s.profile = &p
		},
	})
	if err != nil {
		return fmt.Errorf("reset onboarding: %w", err)
	}
	return nil
}
