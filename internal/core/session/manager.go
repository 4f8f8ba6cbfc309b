package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"comex-portal/internal/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TokenRefresher defines the port for exchanging a refresh token for a new
// access token against the core API.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// Manager owns the session lifecycle. It is the single writer of session
// state; handlers and upstream adapters go through it instead of touching
// tokens directly.
//
// Access-token refresh is single-flight per session: when several upstream
// calls hit a 401 at the same time, only one refresh request is issued and
// all callers share its result.
type Manager struct {
	store     Store
	refresher TokenRefresher
	group     singleflight.Group
	logger    *zap.Logger
}

// NewManager creates a new session Manager.
func NewManager(store Store, refresher TokenRefresher) *Manager {
	return &Manager{
		store:     store,
		refresher: refresher,
		logger:    logger.Get(),
	}
}

// Create establishes a new session for a successful core API login.
func (m *Manager) Create(ctx context.Context, accessToken, refreshToken string, user json.RawMessage) (*Session, error) {
	sess := &Session{
		ID:           uuid.NewString(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sess, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// RefreshAccess exchanges the session's refresh token for a new access token
// and persists it. Concurrent calls for the same session are collapsed into
// one upstream refresh. Any failure purges the session and returns
// ErrExpired: the frontend must send the user to login, never retry.
func (m *Manager) RefreshAccess(ctx context.Context, sessionID string) (string, error) {
	v, err, shared := m.group.Do(sessionID, func() (interface{}, error) {
		sess, err := m.store.Get(ctx, sessionID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrExpired
			}
			return nil, err
		}

		if sess.RefreshToken == "" {
			m.purge(ctx, sessionID)
			return nil, ErrExpired
		}

		access, err := m.refresher.RefreshAccessToken(ctx, sess.RefreshToken)
		if err != nil {
			m.logger.Warn("Token refresh rejected, purging session",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			m.purge(ctx, sessionID)
			return nil, ErrExpired
		}

		sess.AccessToken = access
		if err := m.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("failed to persist refreshed session: %w", err)
		}

		return access, nil
	})
	if err != nil {
		return "", err
	}

	if shared {
		m.logger.Debug("Token refresh deduplicated", zap.String("session_id", sessionID))
	}

	return v.(string), nil
}

// Purge removes a session. Used on logout and on refresh failure.
func (m *Manager) Purge(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

func (m *Manager) purge(ctx context.Context, id string) {
	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.Warn("Failed to purge session", zap.String("session_id", id), zap.Error(err))
	}
}
