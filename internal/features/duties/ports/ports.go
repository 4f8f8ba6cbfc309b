package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrTariffNotFound is returned by providers when the subheading has no
// tariff entry.
var ErrTariffNotFound = errors.New("tariff subheading not found")

// TariffProvider resolves the ad-valorem rate for a tariff subheading.
type TariffProvider interface {
	// GetAdValoremRate returns the rate as a fraction (0.20 for 20%).
	GetAdValoremRate(ctx context.Context, hsCode string) (decimal.Decimal, error)
}
