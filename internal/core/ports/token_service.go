package ports

import (
	"context"
	"time"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// PasswordHasher hashes and checks plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Issue(subjectID, role string) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks signature and expiry. It never consults the user store.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}

// TokenRevocationList remembers tokens that were explicitly logged out.
type TokenRevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
