// Package identity exposes the signed-in user to the wealth store. Login,
// token refresh and sign-out flows belong to the host; the store only reads
// the current session and listens for transitions.
package identity

import (
	"context"
	"strings"
	"sync"
)

// Session is a signed-in identity.
type Session struct {
	IdentityID string
	// Handle is the login handle, usually an email address.
	Handle string
}

// DisplayName derives a short name from the handle: the part before "@", or
// "User" when there is nothing to use.
func (s Session) DisplayName() string {
	name, _, _ := strings.Cut(s.Handle, "@")
	if name = strings.TrimSpace(name); name == "" {
		return "User"
	}
	return name
}

// Provider reports the current session and its changes. A nil *Session
// means nobody is signed in.
type Provider interface {
	Current(ctx context.Context) (*Session, error)
	// Subscribe calls fn after every sign-in or sign-out until the returned
	// function is called.
	Subscribe(fn func(*Session)) (unsubscribe func())
}

// notifier fans session transitions out to subscribers.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(*Session)
}

func (n *notifier) Subscribe(fn func(*Session)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(*Session))
	}
	key := n.next
	n.next++
	n.subs[key] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, key)
		})
	}
}

func (n *notifier) notify(s *Session) {
	n.mu.Lock()
	subs := make([]func(*Session), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		var cp *Session
		if s != nil {
			v := *s
			cp = &v
		}
		fn(cp)
	}
}
