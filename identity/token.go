package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the subset of an access token the store needs.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Token derives the session from an HMAC-signed access token, the form the
// hosted auth service hands to clients. An expired token reads as signed out.
type Token struct {
	notifier
	secret []byte

	mu    sync.RWMutex
	token string
}

var _ Provider = (*Token)(nil)

func NewToken(secret, token string) *Token {
	return &Token{secret: []byte(secret), token: token}
}

// Parse validates tokenString and returns the session it carries.
func (t *Token) Parse(tokenString string) (*Session, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token claims")
	}
	sub, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("token subject: %w", err)
	}
	return &Session{IdentityID: sub.String(), Handle: claims.Email}, nil
}

func (t *Token) Current(ctx context.Context) (*Session, error) {
	t.mu.RLock()
	raw := t.token
	t.mu.RUnlock()

	if raw == "" {
		return nil, nil
	}
	s, err := t.Parse(raw)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, nil
	}
	return s, err
}

// SetToken swaps the access token. An empty token signs out. Subscribers
// hear about the resulting session; a token that does not parse is rejected
// and the previous one kept.
func (t *Token) SetToken(raw string) error {
	var s *Session
	if raw != "" {
		var err error
		if s, err = t.Parse(raw); err != nil {
			return err
		}
	}

	t.mu.Lock()
	t.token = raw
	t.mu.Unlock()

	t.notify(s)
	return nil
}

// AccessToken returns the raw token for clients that forward it.
func (t *Token) AccessToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}
