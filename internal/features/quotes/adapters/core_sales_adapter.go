package adapter

import (
	"context"
	"fmt"
	"net/http"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/quotes/domain"
)

// CoreSalesAdapter implements the QuoteProvider port against the core
// sales API.
type CoreSalesAdapter struct {
	client *session.Client
}

// NewCoreSalesAdapter creates a new CoreSalesAdapter.
func NewCoreSalesAdapter(client *session.Client) *CoreSalesAdapter {
	return &CoreSalesAdapter{
		client: client,
	}
}

// ListMySubmissions fetches the submissions owned by the session's lead.
func (a *CoreSalesAdapter) ListMySubmissions(ctx context.Context, sess *session.Session) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := a.client.DoJSON(ctx, sess, http.MethodGet, "/api/sales/quote-submissions/my-submissions/", nil, &subs)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// GetSubmission fetches one submission by ID.
func (a *CoreSalesAdapter) GetSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error) {
	var sub domain.Submission
	path := fmt.Sprintf("/api/sales/quote-submissions/%d/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// createPayload is the wire shape for a new submission. Totals travel with
// the row data so the core system records consistent aggregates.
type createPayload struct {
	domain.Request
	TotalWeightKg   float64 `json:"total_weight_kg"`
	TotalContainers int     `json:"total_containers"`
	TotalCBM        float64 `json:"total_cbm"`
}

// CreateSubmission registers a new quote request.
func (a *CoreSalesAdapter) CreateSubmission(ctx context.Context, sess *session.Session, req domain.Request) (*domain.Submission, error) {
	cbm, err := req.TotalCBM()
	if err != nil {
		return nil, fmt.Errorf("failed to compute cargo volume: %w", err)
	}

	payload := createPayload{
		Request:         req,
		TotalWeightKg:   req.TotalWeightKg(),
		TotalContainers: req.TotalContainers(),
		TotalCBM:        cbm,
	}

	var sub domain.Submission
	if err := a.client.DoJSON(ctx, sess, http.MethodPost, "/api/sales/quote-submissions/", payload, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ApproveSubmission approves the submission through its action endpoint.
func (a *CoreSalesAdapter) ApproveSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error) {
	var sub domain.Submission
	path := fmt.Sprintf("/api/sales/quote-submissions/%d/approve/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPost, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// RejectSubmission rejects the submission through its action endpoint.
func (a *CoreSalesAdapter) RejectSubmission(ctx context.Context, sess *session.Session, id int64, reason string) (*domain.Submission, error) {
	body := map[string]string{"reason": reason}

	var sub domain.Submission
	path := fmt.Sprintf("/api/sales/quote-submissions/%d/reject/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodPost, path, body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
