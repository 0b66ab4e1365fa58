package store

import (
	"context"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/internal/metrics"
	"github.com/rustyeddy/wealthgrid/knowledge"
	"github.com/rustyeddy/wealthgrid/wealth"
)

// MarkCardAsRead adds cardID to the read set and records the mark remotely.
// A mark the gateway already has counts as success. Other remote failures
// are logged and the local mark stays.
func (s *Store) MarkCardAsRead(ctx context.Context, cardID string) error {
	if cardID == "" {
		return fmt.Errorf("mark card read: empty card id")
	}
	sess, err := s.session(ctx)
	if err != nil {
		return fmt.Errorf("mark card read: %w", err)
	}

	s.mu.Lock()
	if !s.read.Has(cardID) {
		read := wealth.NewReadSet(s.read.IDs()...)
		read[cardID] = struct{}{}
		s.read = read
	}
	s.mu.Unlock()

	err = gateway.IgnoreConflict(s.gw.MarkRead(ctx, sess.IdentityID, cardID))
	if err != nil {
		s.metrics.Persist("mark_read", metrics.Failed)
		s.log.Warn("read mark not saved", zap.String("card", cardID), zap.Error(err))
		return nil
	}
	s.metrics.Persist("mark_read", metrics.OK)
	return nil
}

// AddAdvisoryCard puts c at the head of the card list unless a card with its
// id is already there, and saves generated cards in the background. It
// reports whether the card was added.
func (s *Store) AddAdvisoryCard(ctx context.Context, c wealth.Card) bool {
	if c.ID == "" {
		return false
	}
	c = c.Clone()
	if c.Origin == "" {
		c.Origin = wealth.Generated
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	s.mu.Lock()
	if slices.ContainsFunc(s.cards, func(x wealth.Card) bool { return x.ID == c.ID }) {
		s.mu.Unlock()
		return false
	}
	s.cards = slices.Insert(slices.Clone(s.cards), 0, c)
	s.mu.Unlock()

	if c.Origin == wealth.Curated || knowledge.IsCurated(c.ID) {
		return true
	}

	// The card belongs to whoever is signed in now, not when the write runs.
	sess, err := s.session(ctx)
	if err != nil {
		s.metrics.Persist("create_card", metrics.Failed)
		s.log.Warn("card not saved", zap.String("card", c.ID), zap.Error(err))
		return true
	}
	identityID := sess.IdentityID
	s.persist(ctx, "create_card", func(ctx context.Context) error {
		return gateway.IgnoreConflict(s.gw.CreateCard(ctx, identityID, c))
	})
	return true
}

// CommentOnEntry asks the advisor about one transaction. When the advisor
// is missing, slow or wrong, the matching catalog card is used instead. The
// resulting card is added to the card list.
func (s *Store) CommentOnEntry(ctx context.Context, e wealth.Entry) wealth.Card {
	card := knowledge.ForEntry(e)

	if s.adv != nil {
		actx, cancel := context.WithTimeout(ctx, s.advisorTimeout)
		c, err := s.adv.Commentary(actx, e)
		cancel()
		if err != nil {
			s.log.Warn("advisor commentary unavailable, using catalog", zap.String("entry", e.ID), zap.Error(err))
		} else {
			card = wealth.Card{
				ID:        cardID("comment", e.ID),
				Title:     c.Title,
				Concept:   "Transaction review",
				Body:      c.Body,
				Tags:      []string{string(e.Kind), string(e.Bucket)},
				Origin:    wealth.Generated,
				CreatedAt: s.now(),
			}
		}
	}

	s.AddAdvisoryCard(ctx, card)
	return card
}

// cardID derives a stable id from its parts, so that the same advice asked
// twice dedupes to one card.
func cardID(kind string, parts ...string) string {
	h := blake3.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return kind + "-" + hex.EncodeToString(h.Sum(nil)[:12])
}
