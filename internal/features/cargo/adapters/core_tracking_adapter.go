package adapter

import (
	"context"
	"fmt"
	"net/http"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/cargo/domain"
)

// CoreTrackingAdapter implements the CargoProvider port against the core
// cargo-tracking API.
type CoreTrackingAdapter struct {
	client *session.Client
}

// NewCoreTrackingAdapter creates a new CoreTrackingAdapter.
func NewCoreTrackingAdapter(client *session.Client) *CoreTrackingAdapter {
	return &CoreTrackingAdapter{
		client: client,
	}
}

// ListCargo fetches the importer's tracked shipments.
func (a *CoreTrackingAdapter) ListCargo(ctx context.Context, sess *session.Session) ([]domain.Cargo, error) {
	var cargos []domain.Cargo
	err := a.client.DoJSON(ctx, sess, http.MethodGet, "/api/sales/cargo-tracking/", nil, &cargos)
	if err != nil {
		return nil, err
	}
	return cargos, nil
}

// GetCargo fetches one shipment with its embedded milestone array.
func (a *CoreTrackingAdapter) GetCargo(ctx context.Context, sess *session.Session, id int64) (*domain.Cargo, error) {
	var cargo domain.Cargo
	path := fmt.Sprintf("/api/sales/cargo-tracking/%d/", id)
	if err := a.client.DoJSON(ctx, sess, http.MethodGet, path, nil, &cargo); err != nil {
		return nil, err
	}
	return &cargo, nil
}
