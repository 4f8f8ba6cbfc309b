package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"comex-portal/internal/core/logger"
	"comex-portal/internal/core/session"
	"comex-portal/internal/features/cargo/domain"
	"comex-portal/internal/features/cargo/ports"

	"go.uber.org/zap"
)

// ErrCargoNotFound is returned when the cargo record does not exist.
var ErrCargoNotFound = errors.New("cargo not found")

// CargoService projects the core system's milestone data for the portal.
// Read-only: nothing here mutates a milestone.
type CargoService struct {
	provider ports.CargoProvider
}

// NewCargoService creates a new CargoService.
func NewCargoService(provider ports.CargoProvider) *CargoService {
	return &CargoService{
		provider: provider,
	}
}

// ListCargo returns the importer's shipments with a progress summary each.
// Milestone arrays are dropped from the list response; the detail endpoint
// carries them.
func (s *CargoService) ListCargo(ctx context.Context, sess *session.Session) ([]domain.Cargo, error) {
	cargos, err := s.provider.ListCargo(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to list cargo: %w", err)
	}

	for i := range cargos {
		s.projectTimeline(&cargos[i])
		cargos[i].Milestones = nil
	}
	return cargos, nil
}

// GetCargo returns one shipment with its ordered timeline and summary.
func (s *CargoService) GetCargo(ctx context.Context, sess *session.Session, id int64) (*domain.Cargo, error) {
	cargo, err := s.provider.GetCargo(ctx, sess, id)
	if err != nil {
		if errors.Is(err, session.ErrUpstreamNotFound) {
			return nil, ErrCargoNotFound
		}
		return nil, fmt.Errorf("failed to get cargo: %w", err)
	}

	s.projectTimeline(cargo)
	return cargo, nil
}

// projectTimeline sorts the milestones by their server-defined order and
// derives the progress summary. An inconsistent timeline is logged and
// rendered as received; the core system's data wins.
func (s *CargoService) projectTimeline(cargo *domain.Cargo) {
	sort.SliceStable(cargo.Milestones, func(i, j int) bool {
		return cargo.Milestones[i].Order < cargo.Milestones[j].Order
	})

	if err := domain.ValidateTimeline(cargo.Milestones); err != nil {
		logger.Get().Warn("cargo timeline inconsistent",
			zap.Int64("cargo_id", cargo.ID),
			zap.String("ro_number", cargo.RONumber),
		)
	}

	cargo.Progress = domain.Summarize(cargo.Milestones)
}
