package service

import (
	"context"
	"errors"
	"fmt"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/quotes/domain"
	"comex-portal/internal/features/quotes/ports"
)

var (
	// ErrQuoteNotFound is returned when the submission does not exist or does
	// not belong to the session's lead.
	ErrQuoteNotFound = errors.New("quote submission not found")
	// ErrNotDecidable is returned when approving or rejecting a submission
	// that is not awaiting the importer's decision.
	ErrNotDecidable = errors.New("quote is not awaiting client decision")
)

// QuoteService handles the quote submission lifecycle for the portal.
type QuoteService struct {
	provider ports.QuoteProvider
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(provider ports.QuoteProvider) *QuoteService {
	return &QuoteService{
		provider: provider,
	}
}

// ListMySubmissions returns the session lead's submissions with the portal
// display status filled in.
func (s *QuoteService) ListMySubmissions(ctx context.Context, sess *session.Session) ([]domain.Submission, error) {
	subs, err := s.provider.ListMySubmissions(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	for i := range subs {
		subs[i].Display = subs[i].Status.Display()
	}
	return subs, nil
}

// GetSubmission returns one submission by ID.
func (s *QuoteService) GetSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error) {
	sub, err := s.provider.GetSubmission(ctx, sess, id)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	sub.Display = sub.Status.Display()
	return sub, nil
}

// CanGenerateInstruction reports whether a shipping instruction may be
// initialized from the submission. Satisfies the instructions QuoteGate port.
func (s *QuoteService) CanGenerateInstruction(ctx context.Context, sess *session.Session, id int64) (bool, error) {
	sub, err := s.GetSubmission(ctx, sess, id)
	if err != nil {
		return false, err
	}
	return sub.Status.CanGenerateInstruction(), nil
}

// Create registers a new quote request. Totals are computed here, before the
// payload is forwarded, so the core system never receives inconsistent
// aggregates.
func (s *QuoteService) Create(ctx context.Context, sess *session.Session, req domain.Request) (*domain.Submission, error) {
	sub, err := s.provider.CreateSubmission(ctx, sess, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	sub.Display = sub.Status.Display()
	return sub, nil
}

// Approve approves a quoted submission. Only submissions awaiting the
// importer's decision may be approved.
func (s *QuoteService) Approve(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error) {
	sub, err := s.GetSubmission(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if !sub.Status.AwaitsClientDecision() {
		return nil, ErrNotDecidable
	}

	approved, err := s.provider.ApproveSubmission(ctx, sess, id)
	if err != nil {
		return nil, fmt.Errorf("failed to approve submission: %w", err)
	}

	approved.Display = approved.Status.Display()
	return approved, nil
}

// Reject rejects a quoted submission.
func (s *QuoteService) Reject(ctx context.Context, sess *session.Session, id int64, reason string) (*domain.Submission, error) {
	sub, err := s.GetSubmission(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if !sub.Status.AwaitsClientDecision() {
		return nil, ErrNotDecidable
	}

	rejected, err := s.provider.RejectSubmission(ctx, sess, id, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject submission: %w", err)
	}

	rejected.Display = rejected.Status.Display()
	return rejected, nil
}
