package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Static holds a session set by the host, e.g. from configuration.
type Static struct {
	notifier
	mu      sync.RWMutex
	session *Session
}

var _ Provider = (*Static)(nil)

// NewStatic returns a provider with s signed in, or nobody if s is nil.
func NewStatic(s *Session) *Static {
	st := &Static{}
	if s != nil {
		v := *s
		st.session = &v
	}
	return st
}

// NewSession builds a session for handle. An empty identityID gets a fresh
// random UUID; a non-empty one must parse as a UUID.
func NewSession(identityID, handle string) (Session, error) {
	if identityID == "" {
		return Session{IdentityID: uuid.NewString(), Handle: handle}, nil
	}
	u, err := uuid.Parse(identityID)
	if err != nil {
		return Session{}, fmt.Errorf("identity id %q: %w", identityID, err)
	}
	return Session{IdentityID: u.String(), Handle: handle}, nil
}

func (s *Static) Current(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, nil
	}
	v := *s.session
	return &v, nil
}

// SignIn replaces the session and notifies subscribers.
func (s *Static) SignIn(sess Session) {
	s.mu.Lock()
	s.session = &sess
	s.mu.Unlock()
	s.notify(&sess)
}

// SignOut clears the session and notifies subscribers.
func (s *Static) SignOut() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	s.notify(nil)
}
