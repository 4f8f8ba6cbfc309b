package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/auth/domain"
	"comex-portal/internal/features/auth/ports"
	"comex-portal/internal/features/auth/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAuthenticator is a mock implementation of Authenticator for testing.
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

func newTestApp(auth *mockAuthenticator) (*fiber.App, *session.Manager) {
	manager := session.NewManager(newMemStore(), auth)
	h := NewAuthHandler(service.NewAuthService(auth, manager))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/api/auth/login", h.Login)
	app.Post("/api/auth/logout", session.Middleware(manager), h.Logout)
	app.Get("/api/auth/me", session.Middleware(manager), h.Me)

	return app, manager
}

// TestAuthHandler_Login verifies the full login round trip including the
// session middleware on a follow-up call.
func TestAuthHandler_Login(t *testing.T) {
	app, _ := newTestApp(&mockAuthenticator{
		pair: &ports.TokenPair{
			Access:  "access-token",
			Refresh: "refresh-token",
			User:    json.RawMessage(`{"id":7,"email":"importer@andina.ec"}`),
		},
	})

	body, _ := json.Marshal(domain.Credentials{
		Email:    "importer@andina.ec",
		Password: "secret",
	})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login domain.Login
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.SessionID)

	// The session id works as bearer token against protected routes.
	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.SessionID)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "importer@andina.ec", profile["email"])
}

// TestAuthHandler_Login_BadCredentials verifies the 401 contract.
func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	app, _ := newTestApp(&mockAuthenticator{returnError: ports.ErrBadCredentials})

	body, _ := json.Marshal(domain.Credentials{
		Email:    "importer@andina.ec",
		Password: "wrong",
	})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Correo o contraseña incorrectos", errResp.Message)
}

// TestAuthHandler_Login_InvalidEmail verifies field validation.
func TestAuthHandler_Login_InvalidEmail(t *testing.T) {
	app, _ := newTestApp(&mockAuthenticator{})

	body, _ := json.Marshal(domain.Credentials{Email: "not-an-email", Password: "x"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var fieldResp FieldErrorsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fieldResp))
	assert.Equal(t, "Correo inválido", fieldResp.Errors["email"])
}

// TestAuthHandler_Logout verifies the session stops working after logout.
func TestAuthHandler_Logout(t *testing.T) {
	app, _ := newTestApp(&mockAuthenticator{
		pair: &ports.TokenPair{Access: "a", Refresh: "r", User: json.RawMessage(`{}`)},
	})

	body, _ := json.Marshal(domain.Credentials{
		Email:    "importer@andina.ec",
		Password: "secret",
	})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var login domain.Login
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))

	req = httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.SessionID)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.SessionID)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// TestAuthHandler_Me_NoSession verifies the middleware guard.
func TestAuthHandler_Me_NoSession(t *testing.T) {
	app, _ := newTestApp(&mockAuthenticator{})

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
