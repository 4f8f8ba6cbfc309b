package service

import (
	"context"
	"errors"
	"fmt"

	"comex-portal/internal/features/duties/domain"
	"comex-portal/internal/features/duties/ports"
)

var (
	// ErrTariffNotFound is returned when no rate exists for the subheading.
	ErrTariffNotFound = errors.New("tariff subheading not found")
	// ErrInvalidValues is returned for negative or missing cost inputs.
	ErrInvalidValues = errors.New("invalid customs values")
)

// DutyService produces customs duty pre-liquidations.
type DutyService struct {
	tariffs ports.TariffProvider
}

// NewDutyService creates a new DutyService.
func NewDutyService(tariffs ports.TariffProvider) *DutyService {
	return &DutyService{
		tariffs: tariffs,
	}
}

// Estimate resolves the ad-valorem rate for the subheading and computes the
// duty breakdown. The result is an estimate; SENAE's liquidation governs.
func (s *DutyService) Estimate(ctx context.Context, req domain.EstimateRequest) (*domain.Estimate, error) {
	cif, err := req.CustomsValue()
	if err != nil {
		return nil, ErrInvalidValues
	}

	rate, err := s.tariffs.GetAdValoremRate(ctx, req.HSCode)
	if err != nil {
		if errors.Is(err, ports.ErrTariffNotFound) {
			return nil, ErrTariffNotFound
		}
		return nil, fmt.Errorf("failed to resolve tariff rate: %w", err)
	}

	est := domain.Preliquidate(req.HSCode, cif, rate, req.ICERate)
	return &est, nil
}
