package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
	"github.com/gdsc/eventhub/internal/pkg/metrics"
)

// AuthService implements signup, login, logout and token authentication.
type AuthService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	issuer  ports.TokenIssuer
	verify  ports.TokenVerifier
	revoked ports.TokenRevocationList // optional
	log     zerolog.Logger

	// dummyHash is compared against when the username is unknown so that
	// both login failure paths cost one hash verification.
	dummyHash string
}

// NewAuthService wires the auth use cases. revoked may be nil, in which case
// tokens are purely stateless and logout is client-side only.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	verify ports.TokenVerifier,
	revoked ports.TokenRevocationList,
	log zerolog.Logger,
) *AuthService {
	s := &AuthService{
		repo:    repo,
		hasher:  hasher,
		issuer:  issuer,
		verify:  verify,
		revoked: revoked,
		log:     log,
	}
	if h, err := hasher.Hash("eventhub-timing-equalizer"); err == nil {
		s.dummyHash = h
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be one of: user admin", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

// Login never reveals whether the username or the password was wrong: both
// come back as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			if s.dummyHash != "" {
				_ = s.hasher.Verify(password, s.dummyHash)
			}
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			s.log.Debug().Str("username", username).Msg("login for unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		s.log.Debug().Str("user_id", user.ID).Msg("login with wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: token, User: user}, nil
}

// Logout revokes the principal's token until it would have expired anyway.
// Without a revocation list it is a no-op.
func (s *AuthService) Logout(ctx context.Context, p domain.Principal) error {
	if s.revoked == nil || p.TokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info().Str("user_id", p.SubjectID).Str("jti", p.TokenID).Msg("token revoked")
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.verify.Verify(token)
	if err != nil {
		metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
		s.log.Debug().Err(err).Msg("token rejected")
		return domain.Principal{}, domain.ErrInvalidToken
	}

	if s.revoked != nil && claims.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("jti", claims.TokenID).Msg("revocation check failed, accepting token")
		case revoked:
			metrics.TokenRejectionsTotal.WithLabelValues("revoked").Inc()
			s.log.Debug().Str("jti", claims.TokenID).Msg("revoked token presented")
			return domain.Principal{}, domain.ErrInvalidToken
		}
	}

	return domain.PrincipalFromClaims(claims), nil
}
