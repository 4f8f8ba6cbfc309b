package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a session id does not resolve to a stored session.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when the upstream rejected the access token and the
	// session could not be refreshed. Callers must send the user back to login.
	ErrExpired = errors.New("session expired")
)

// Session is the server-side replacement for the token/user triple the portal
// frontend used to keep in browser storage. It is owned by exactly one
// importer login and persisted under its opaque ID.
type Session struct {
	// ID is the opaque identifier the frontend presents as its bearer token.
	ID string `json:"id"`
	// AccessToken is the current core API access token.
	AccessToken string `json:"access_token"`
	// RefreshToken is the long-lived core API refresh token.
	RefreshToken string `json:"refresh_token"`
	// User is the cached importer profile as returned by the core API login.
	User json.RawMessage `json:"user"`
	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the secondary port for session persistence.
type Store interface {
	// Save persists the session, resetting its idle TTL.
	Save(ctx context.Context, sess *Session) error
	// Get retrieves a session by ID. Returns ErrNotFound when absent or expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error
}
