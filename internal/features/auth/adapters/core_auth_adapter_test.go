package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comex-portal/internal/features/auth/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoreAuthAdapter_Login verifies the token pair and profile mapping.
func TestCoreAuthAdapter_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/login/", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "importer@andina.ec", creds["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access":  "access-token",
			"refresh": "refresh-token",
			"user":    map[string]any{"id": 7, "email": "importer@andina.ec"},
		})
	}))
	defer srv.Close()

	adapter := NewCoreAuthAdapter(srv.URL, 5*time.Second)

	pair, err := adapter.Login(context.Background(), "importer@andina.ec", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.Access)
	assert.Equal(t, "refresh-token", pair.Refresh)
	assert.Contains(t, string(pair.User), "importer@andina.ec")
}

// TestCoreAuthAdapter_Login_BadCredentials verifies rejection mapping.
func TestCoreAuthAdapter_Login_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "credenciales inválidas"})
	}))
	defer srv.Close()

	adapter := NewCoreAuthAdapter(srv.URL, 5*time.Second)

	_, err := adapter.Login(context.Background(), "importer@andina.ec", "wrong")
	assert.ErrorIs(t, err, ports.ErrBadCredentials)
}

// TestCoreAuthAdapter_RefreshAccessToken verifies the refresh exchange.
func TestCoreAuthAdapter_RefreshAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/token/refresh/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-token", body["refresh"])

		json.NewEncoder(w).Encode(map[string]string{"access": "new-access"})
	}))
	defer srv.Close()

	adapter := NewCoreAuthAdapter(srv.URL, 5*time.Second)

	access, err := adapter.RefreshAccessToken(context.Background(), "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)
}

// TestCoreAuthAdapter_RefreshAccessToken_Rejected verifies a dead refresh
// token surfaces as an error.
func TestCoreAuthAdapter_RefreshAccessToken_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	adapter := NewCoreAuthAdapter(srv.URL, 5*time.Second)

	_, err := adapter.RefreshAccessToken(context.Background(), "expired")
	assert.Error(t, err)
}
