// Package memory is an in-process Gateway. It backs the "memory" gateway
// type and lets tests inject failures and latency per operation.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rustyeddy/wealthgrid/gateway"
	"github.com/rustyeddy/wealthgrid/pkg/id"
	"github.com/rustyeddy/wealthgrid/wealth"
)

// Op names a gateway operation for hooks and call counts.
type Op string

const (
	GetProfile    Op = "get_profile"
	UpsertProfile Op = "upsert_profile"
	ListEntries   Op = "list_entries"
	CreateEntry   Op = "create_entry"
	DeleteEntry   Op = "delete_entry"
	DeleteEntries Op = "delete_entries"
	ListCards     Op = "list_cards"
	CreateCard    Op = "create_card"
	ListReadMarks Op = "list_read_marks"
	MarkRead      Op = "mark_read"
)

// Hook runs before every operation, outside the store's lock. A non-nil
// error fails the operation without touching the data.
type Hook func(ctx context.Context, op Op) error

type Memory struct {
	mu       sync.Mutex
	profiles map[string]wealth.Profile
	entries  []wealth.Entry
	cards    map[string][]wealth.Card
	marks    map[string]map[string]struct{}
	calls    map[Op]int
	faults   map[Op]error
	hook     Hook
}

var _ gateway.Gateway = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		profiles: make(map[string]wealth.Profile),
		cards:    make(map[string][]wealth.Card),
		marks:    make(map[string]map[string]struct{}),
		calls:    make(map[Op]int),
		faults:   make(map[Op]error),
	}
}

// Fail makes every later call of op return err. A nil err clears the fault.
func (m *Memory) Fail(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.faults, op)
		return
	}
	m.faults[op] = err
}

func (m *Memory) SetHook(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = h
}

// Calls returns how many times op was invoked, failed calls included.
func (m *Memory) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *Memory) begin(ctx context.Context, op Op) error {
	m.mu.Lock()
	m.calls[op]++
	hook := m.hook
	fault := m.faults[op]
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, op); err != nil {
			return err
		}
	}
	if fault != nil {
		return fault
	}
	return ctx.Err()
}

// PutProfile stores p directly, bypassing hooks.
func (m *Memory) PutProfile(p wealth.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.IdentityID] = p.Clone()
}

// PutEntry stores e directly, bypassing hooks. An empty id gets a new one.
func (m *Memory) PutEntry(e wealth.Entry) wealth.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = id.New()
	}
	m.entries = append(m.entries, e)
	return e
}

func (m *Memory) GetProfile(ctx context.Context, identityID string) (wealth.Profile, error) {
	if err := m.begin(ctx, GetProfile); err != nil {
		return wealth.Profile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[identityID]
	if !ok {
		return wealth.Profile{}, fmt.Errorf("profile %s: %w", identityID, gateway.ErrNotFound)
	}
	return p.Clone(), nil
}

func (m *Memory) UpsertProfile(ctx context.Context, p wealth.Profile) error {
	if err := m.begin(ctx, UpsertProfile); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.IdentityID] = p.Clone()
	return nil
}

func (m *Memory) ListEntries(ctx context.Context, identityID string) ([]wealth.Entry, error) {
	if err := m.begin(ctx, ListEntries); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []wealth.Entry
	for _, e := range m.entries {
		if e.IdentityID == identityID {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b wealth.Entry) int {
		if c := b.Time.Compare(a.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// CreateEntry issues a fresh server id, as a remote store would.
func (m *Memory) CreateEntry(ctx context.Context, e wealth.Entry) (wealth.Entry, error) {
	if err := m.begin(ctx, CreateEntry); err != nil {
		return wealth.Entry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = id.New()
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *Memory) DeleteEntry(ctx context.Context, entryID string) error {
	if err := m.begin(ctx, DeleteEntry); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.entries, func(e wealth.Entry) bool { return e.ID == entryID })
	if i < 0 {
		return fmt.Errorf("entry %s: %w", entryID, gateway.ErrNotFound)
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	return nil
}

func (m *Memory) DeleteEntries(ctx context.Context, identityID string) error {
	if err := m.begin(ctx, DeleteEntries); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = slices.DeleteFunc(m.entries, func(e wealth.Entry) bool { return e.IdentityID == identityID })
	return nil
}

func (m *Memory) ListCards(ctx context.Context, identityID string) ([]wealth.Card, error) {
	if err := m.begin(ctx, ListCards); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cards := m.cards[identityID]
	out := make([]wealth.Card, 0, len(cards))
	for i := len(cards) - 1; i >= 0; i-- {
		out = append(out, cards[i].Clone())
	}
	return out, nil
}

func (m *Memory) CreateCard(ctx context.Context, identityID string, c wealth.Card) error {
	if err := m.begin(ctx, CreateCard); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.cards[identityID] {
		if have.ID == c.ID {
			return fmt.Errorf("card %s: %w", c.ID, gateway.ErrConflict)
		}
	}
	m.cards[identityID] = append(m.cards[identityID], c.Clone())
	return nil
}

func (m *Memory) ListReadMarks(ctx context.Context, identityID string) ([]string, error) {
	if err := m.begin(ctx, ListReadMarks); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return wealth.ReadSet(m.marks[identityID]).IDs(), nil
}

func (m *Memory) MarkRead(ctx context.Context, identityID, cardID string) error {
	if err := m.begin(ctx, MarkRead); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.marks[identityID]
	if !ok {
		set = make(map[string]struct{})
		m.marks[identityID] = set
	}
	if _, dup := set[cardID]; dup {
		return fmt.Errorf("read mark %s/%s: %w", identityID, cardID, gateway.ErrConflict)
	}
	set[cardID] = struct{}{}
	return nil
}
