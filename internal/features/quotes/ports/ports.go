package ports

import (
	"context"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/quotes/domain"
)

// QuoteProvider defines the secondary port against the core sales API.
// Implementations forward the importer's session credentials.
type QuoteProvider interface {
	// ListMySubmissions returns the submissions owned by the session's lead.
	ListMySubmissions(ctx context.Context, sess *session.Session) ([]domain.Submission, error)
	// GetSubmission returns one submission by core-system ID.
	GetSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error)
	// CreateSubmission registers a new quote request with computed totals.
	CreateSubmission(ctx context.Context, sess *session.Session, req domain.Request) (*domain.Submission, error)
	// ApproveSubmission approves a quoted submission.
	ApproveSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error)
	// RejectSubmission rejects a quoted submission with an optional reason.
	RejectSubmission(ctx context.Context, sess *session.Session, id int64, reason string) (*domain.Submission, error)
}
