package ports

import (
	"context"

	"comex-portal/internal/core/session"
	"comex-portal/internal/features/cargo/domain"
)

// CargoProvider defines the secondary port against the core cargo-tracking
// API. The surface is read-only.
type CargoProvider interface {
	// ListCargo returns the importer's tracked shipments with embedded milestones.
	ListCargo(ctx context.Context, sess *session.Session) ([]domain.Cargo, error)
	// GetCargo returns one shipment with its full milestone timeline.
	GetCargo(ctx context.Context, sess *session.Session, id int64) (*domain.Cargo, error)
}
