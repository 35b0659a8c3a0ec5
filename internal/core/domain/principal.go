package domain

import (
	"context"
	"time"
)

// Claims is what a verified token asserts about its bearer.
type Claims struct {
	SubjectID string
	Role      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	SubjectID string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// PrincipalFromClaims builds the request identity from verified claims.
func PrincipalFromClaims(c Claims) Principal {
	return Principal{
		SubjectID: c.SubjectID,
		Role:      c.Role,
		TokenID:   c.TokenID,
		ExpiresAt: c.ExpiresAt,
	}
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type principalKey struct{}

// ContextWithPrincipal returns a copy of ctx carrying p.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.SubjectID == "" {
		return Principal{}, false
	}
	return p, true
}
