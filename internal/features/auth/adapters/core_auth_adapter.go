package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"comex-portal/internal/core/httpclient"
	"comex-portal/internal/features/auth/ports"
)

// CoreAuthAdapter implements the Authenticator port against the core
// accounts API. Unlike the other adapters it authenticates with raw
// credentials, so it uses the plain HTTP client rather than the
// session-aware one.
type CoreAuthAdapter struct {
	http    *http.Client
	baseURL string
}

// NewCoreAuthAdapter creates a new CoreAuthAdapter.
func NewCoreAuthAdapter(baseURL string, timeout time.Duration) *CoreAuthAdapter {
	return &CoreAuthAdapter{
		http:    httpclient.NewClient(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type loginResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user"`
}

// Login exchanges credentials for a token pair and the user profile.
func (a *CoreAuthAdapter) Login(ctx context.Context, email, password string) (*ports.TokenPair, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	resp, err := a.post(ctx, "/api/accounts/login/", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusBadRequest:
		return nil, ports.ErrBadCredentials
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	if lr.Access == "" {
		return nil, fmt.Errorf("login response missing access token")
	}

	return &ports.TokenPair{
		Access:  lr.Access,
		Refresh: lr.Refresh,
		User:    lr.User,
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. Also
// satisfies the session manager's TokenRefresher.
func (a *CoreAuthAdapter) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	resp, err := a.post(ctx, "/api/accounts/token/refresh/", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token refresh rejected with status %d", resp.StatusCode)
	}

	var refreshed struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if refreshed.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}

	return refreshed.Access, nil
}

func (a *CoreAuthAdapter) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("core API request failed: %w", err)
	}
	return resp, nil
}
