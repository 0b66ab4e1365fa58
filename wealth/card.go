package wealth

import (
	"slices"
	"time"
)

// Origin says where an advisory card came from.
type Origin string

const (
	Curated   Origin = "curated"
	Generated Origin = "generated"
)

// Card is a short piece of financial advice. Read state is tracked apart
// from the card because curated cards are shared by every user.
type Card struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Concept   string    `json:"concept"`
	Body      string    `json:"content"`
	Action    string    `json:"action,omitempty"`
	Tags      []string  `json:"tags"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

func (c Card) Clone() Card {
	c.Tags = slices.Clone(c.Tags)
	return c
}

// ReadSet is the set of card ids a user has read.
type ReadSet map[string]struct{}

func NewReadSet(ids ...string) ReadSet {
	rs := make(ReadSet, len(ids))
	for _, id := range ids {
		rs[id] = struct{}{}
	}
	return rs
}

func (rs ReadSet) Has(id string) bool {
	_, ok := rs[id]
	return ok
}

// IDs returns the members in sorted order.
func (rs ReadSet) IDs() []string {
	out := make([]string, 0, len(rs))
	for id := range rs {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
