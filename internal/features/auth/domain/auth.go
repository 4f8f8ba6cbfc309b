package domain

import "encoding/json"

// Credentials is a login attempt.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login is a successful authentication: the portal session id the frontend
// keeps, plus the user profile as the core system sent it.
type Login struct {
	// SessionID is the bearer token for subsequent portal calls.
	SessionID string `json:"session_id"`
	// User is the raw profile object from the core system.
	User json.RawMessage `json:"user"`
}
