package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/auth/domain"
	"comex-portal/internal/features/auth/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAuthenticator is a mock implementation of Authenticator.
type mockAuthenticator struct {
	pair        *ports.TokenPair
	returnError error
}

func (m *mockAuthenticator) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.pair, nil
}

func (m *mockAuthenticator) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	return "", nil
}

// memStore is an in-memory session store.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*session.Session)}
}

func (s *memStore) Save(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memStore) Get(ctx context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// TestAuthService_Login verifies a session is opened with the core tokens.
func TestAuthService_Login(t *testing.T) {
	auth := &mockAuthenticator{
		pair: &ports.TokenPair{
			Access:  "access-token",
			Refresh: "refresh-token",
			User:    json.RawMessage(`{"id":7,"email":"importer@andina.ec"}`),
		},
	}
	store := newMemStore()
	svc := NewAuthService(auth, session.NewManager(store, auth))

	login, err := svc.Login(context.Background(), domain.Credentials{
		Email:    "importer@andina.ec",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.SessionID)
	assert.Contains(t, string(login.User), "importer@andina.ec")

	sess, err := store.Get(context.Background(), login.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "access-token", sess.AccessToken)
	assert.Equal(t, "refresh-token", sess.RefreshToken)
}

// TestAuthService_Login_BadCredentials verifies the rejection mapping.
func TestAuthService_Login_BadCredentials(t *testing.T) {
	auth := &mockAuthenticator{returnError: ports.ErrBadCredentials}
	svc := NewAuthService(auth, session.NewManager(newMemStore(), auth))

	_, err := svc.Login(context.Background(), domain.Credentials{
		Email:    "importer@andina.ec",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrBadCredentials)
}

// TestAuthService_Logout verifies the session is purged and logout stays
// idempotent.
func TestAuthService_Logout(t *testing.T) {
	auth := &mockAuthenticator{
		pair: &ports.TokenPair{Access: "a", Refresh: "r"},
	}
	store := newMemStore()
	svc := NewAuthService(auth, session.NewManager(store, auth))

	login, err := svc.Login(context.Background(), domain.Credentials{
		Email:    "importer@andina.ec",
		Password: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.SessionID))
	_, err = store.Get(context.Background(), login.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.NoError(t, svc.Logout(context.Background(), login.SessionID))
}
