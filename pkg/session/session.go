// Package session holds the client-side copy of the bearer token and derives
// authentication state and role from its claims without contacting the server.
//
// The token's signature is never checked here: the client does not hold the
// secret. The server remains the authority; a session only decides what to
// show and which header to send.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRole is reported when the token carries no role claim.
const DefaultRole = "user"

// ErrUndecodable is returned by Login for tokens that are not JWTs.
var ErrUndecodable = errors.New("session: token cannot be decoded")

// Claims are the token claims the client reads.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseUnverified decodes token without verifying its signature.
func ParseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return claims, nil
}

// Session is the client's authentication state.
type Session struct {
	store    Store
	now      func() time.Time
	onLogout func()

	mu     sync.RWMutex
	token  string
	claims *Claims
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOnLogout registers a hook run after Logout clears the session, e.g. to
// move a UI back to a neutral view.
func WithOnLogout(fn func()) Option {
	return func(s *Session) { s.onLogout = fn }
}

// New creates an empty session backed by store. Call Hydrate to restore a
// previously persisted token.
func New(store Store, opts ...Option) *Session {
	s := &Session{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate loads the persisted token. A token that cannot be decoded is
// discarded from the store.
func (s *Session) Hydrate() error {
	token, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("session: load: %w", err)
	}
	token = strings.TrimSpace(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		s.token, s.claims = "", nil
		return nil
	}
	claims, err := ParseUnverified(token)
	if err != nil {
		s.token, s.claims = "", nil
		if cerr := s.store.Clear(); cerr != nil {
			return fmt.Errorf("session: clear: %w", cerr)
		}
		return nil
	}
	s.token, s.claims = token, claims
	return nil
}

// Login adopts token as the current credential and persists it.
func (s *Session) Login(token string) error {
	token = strings.TrimSpace(token)
	claims, err := ParseUnverified(token)
	if err != nil {
		return err
	}
	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}

	s.mu.Lock()
	s.token, s.claims = token, claims
	s.mu.Unlock()
	return nil
}

// Logout clears the in-memory and persisted token, then runs the OnLogout
// hook.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token, s.claims = "", nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	if s.onLogout != nil {
		s.onLogout()
	}
	return nil
}

// IsAuthenticated reports whether a token is held and has not expired. Tokens
// without an expiry are treated as expired.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.claims == nil || s.claims.ExpiresAt == nil {
		return false
	}
	return s.now().Before(s.claims.ExpiresAt.Time)
}

// Role returns the token's role claim, or DefaultRole.
func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.claims == nil || s.claims.Role == "" {
		return DefaultRole
	}
	return s.claims.Role
}

// IsAdmin reports whether the token carries the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role() == "admin"
}

// SubjectID returns the token's subject, or "" when no token is held.
func (s *Session) SubjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.claims == nil {
		return ""
	}
	return s.claims.Subject
}

// ExpiresAt returns the token expiry, or the zero time.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.claims == nil || s.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return s.claims.ExpiresAt.Time
}

// Token returns the raw bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
