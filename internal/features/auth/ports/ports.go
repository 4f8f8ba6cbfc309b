package ports

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrBadCredentials is returned when the core system rejects the login.
var ErrBadCredentials = errors.New("invalid credentials")

// TokenPair is what a successful core-system login yields.
type TokenPair struct {
	Access  string
	Refresh string
	User    json.RawMessage
}

// Authenticator defines the secondary port against the core accounts API.
// Its adapter also serves as the session manager's token refresher.
type Authenticator interface {
	// Login exchanges credentials for a token pair and the user profile.
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// RefreshAccessToken exchanges a refresh token for a new access token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}
