package service

import (
	"context"
	"testing"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/quotes/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockQuoteProvider is a mock implementation of QuoteProvider for testing.
type mockQuoteProvider struct {
	submissions  []domain.Submission
	returnError  error
	approveCalls int
	rejectCalls  int
	createdReq   *domain.Request
}

func (m *mockQuoteProvider) ListMySubmissions(ctx context.Context, sess *session.Session) ([]domain.Submission, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	return m.submissions, nil
}

func (m *mockQuoteProvider) GetSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error) {
	if m.returnError != nil {
		return nil, m.returnError
	}
	for i := range m.submissions {
		if m.submissions[i].ID == id {
			sub := m.submissions[i]
			return &sub, nil
		}
	}
	return nil, session.ErrUpstreamNotFound
}

func (m *mockQuoteProvider) CreateSubmission(ctx context.Context, sess *session.Session, req domain.Request) (*domain.Submission, error) {
	m.createdReq = &req
	return &domain.Submission{ID: 100, Status: domain.StatusRecibida}, nil
}

func (m *mockQuoteProvider) ApproveSubmission(ctx context.Context, sess *session.Session, id int64) (*domain.Submission, error) {
	m.approveCalls++
	return &domain.Submission{ID: id, Status: domain.StatusAprobada}, nil
}

func (m *mockQuoteProvider) RejectSubmission(ctx context.Context, sess *session.Session, id int64, reason string) (*domain.Submission, error) {
	m.rejectCalls++
	return &domain.Submission{ID: id, Status: domain.StatusRechazada}, nil
}

func testSession() *session.Session {
	return &session.Session{ID: "sess-1", AccessToken: "access-1"}
}

// TestQuoteService_ListMySubmissions verifies the display status is filled in.
func TestQuoteService_ListMySubmissions(t *testing.T) {
	provider := &mockQuoteProvider{
		submissions: []domain.Submission{
			{ID: 1, Status: domain.StatusProcesandoCostos},
			{ID: 2, Status: domain.StatusCotizacionEnviada},
		},
	}
	svc := NewQuoteService(provider)

	subs, err := svc.ListMySubmissions(context.Background(), testSession())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, domain.DisplayPendiente, subs[0].Display)
	assert.Equal(t, domain.DisplayCotizado, subs[1].Display)
}

// TestQuoteService_GetSubmission_NotFound verifies upstream 404 mapping.
func TestQuoteService_GetSubmission_NotFound(t *testing.T) {
	svc := NewQuoteService(&mockQuoteProvider{})

	_, err := svc.GetSubmission(context.Background(), testSession(), 99)
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}

// TestQuoteService_Approve verifies approval of a quoted submission.
func TestQuoteService_Approve(t *testing.T) {
	provider := &mockQuoteProvider{
		submissions: []domain.Submission{{ID: 5, Status: domain.StatusCotizacionEnviada}},
	}
	svc := NewQuoteService(provider)

	sub, err := svc.Approve(context.Background(), testSession(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.DisplayAprobada, sub.Display)
	assert.Equal(t, 1, provider.approveCalls)
}

// TestQuoteService_Approve_NotDecidable verifies gating on non-quoted statuses.
func TestQuoteService_Approve_NotDecidable(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusRecibida, domain.StatusAprobada, domain.StatusROGenerado,
	} {
		provider := &mockQuoteProvider{
			submissions: []domain.Submission{{ID: 5, Status: status}},
		}
		svc := NewQuoteService(provider)

		_, err := svc.Approve(context.Background(), testSession(), 5)
		assert.ErrorIs(t, err, ErrNotDecidable, "status %q", status)
		assert.Zero(t, provider.approveCalls)
	}
}

// TestQuoteService_Reject verifies rejection of a quoted submission.
func TestQuoteService_Reject(t *testing.T) {
	provider := &mockQuoteProvider{
		submissions: []domain.Submission{{ID: 5, Status: domain.StatusCotizacionGenerada}},
	}
	svc := NewQuoteService(provider)

	sub, err := svc.Reject(context.Background(), testSession(), 5, "tarifa alta")
	require.NoError(t, err)
	assert.Equal(t, domain.DisplayRechazada, sub.Display)
	assert.Equal(t, 1, provider.rejectCalls)
}

// TestQuoteService_Create verifies the request is forwarded untouched.
func TestQuoteService_Create(t *testing.T) {
	provider := &mockQuoteProvider{}
	svc := NewQuoteService(provider)

	req := domain.Request{
		TransportType: domain.TransportOceanFCL,
		Containers: []domain.ContainerRow{
			{Type: "40HC", Quantity: 1, WeightKg: 10000},
			{Type: "20GP", Quantity: 2, WeightKg: 5000},
		},
	}

	sub, err := svc.Create(context.Background(), testSession(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sub.ID)
	require.NotNil(t, provider.createdReq)
	assert.Equal(t, 20000.0, provider.createdReq.TotalWeightKg())
	assert.Equal(t, 3, provider.createdReq.TotalContainers())
}
