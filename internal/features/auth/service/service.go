package service

import (
	"context"
	"errors"
	"fmt"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/auth/domain"
	"comex-portal/internal/features/auth/ports"
)

// ErrBadCredentials is returned when the core system rejects the login.
var ErrBadCredentials = errors.New("invalid credentials")

// AuthService exchanges credentials for a portal session.
type AuthService struct {
	authenticator ports.Authenticator
	sessions      *session.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator ports.Authenticator, sessions *session.Manager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
	}
}

// Login authenticates against the core system and opens a portal session.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (*domain.Login, error) {
	pair, err := s.authenticator.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, ports.ErrBadCredentials) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	sess, err := s.sessions.Create(ctx, pair.Access, pair.Refresh, pair.User)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.Login{
		SessionID: sess.ID,
		User:      sess.User,
	}, nil
}

// Logout closes the portal session. Missing sessions are fine; logout is
// idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Purge(ctx, sessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("failed to purge session: %w", err)
	}
	return nil
}
