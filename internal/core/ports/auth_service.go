package ports

import (
	"context"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// RegisterInput carries a signup request.
type RegisterInput struct {
	Username string
	Password string
	Role     string // empty defaults to domain.RoleUser
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// AuthService covers signup, login, logout and bearer token checks.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, p domain.Principal) error
	// Authenticate verifies a raw bearer token and returns its principal.
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}
