package adapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"comex-portal/internal/core/cache"
	"comex-portal/internal/core/logger"
	"comex-portal/internal/features/duties/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CachedTariffProvider wraps a TariffProvider with a Redis-backed cache.
// Tariff rates change by decree, not by the hour, so a daily TTL is plenty
// and keeps the browser out of the hot path.
type CachedTariffProvider struct {
	inner  ports.TariffProvider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTariffProvider creates a new CachedTariffProvider.
func NewCachedTariffProvider(inner ports.TariffProvider, c cache.Cache, ttl time.Duration) *CachedTariffProvider {
	return &CachedTariffProvider{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logger.Get(),
	}
}

// GetAdValoremRate returns the cached rate or resolves and caches it.
func (p *CachedTariffProvider) GetAdValoremRate(ctx context.Context, hsCode string) (decimal.Decimal, error) {
	key := "tariff:" + strings.ReplaceAll(hsCode, ".", "")

	if raw, err := p.cache.Get(ctx, key); err == nil {
		rate, err := decimal.NewFromString(string(raw))
		if err == nil {
			return rate, nil
		}
		p.logger.Warn("Corrupt cached tariff rate, refetching",
			zap.String("key", key),
			zap.String("raw", string(raw)),
		)
	} else if !errors.Is(err, cache.ErrMiss) {
		p.logger.Warn("Tariff cache read failed", zap.Error(err))
	}

	rate, err := p.inner.GetAdValoremRate(ctx, hsCode)
	if err != nil {
		return decimal.Zero, err
	}

	if err := p.cache.Set(ctx, key, []byte(rate.String()), p.ttl); err != nil {
		p.logger.Warn("Failed to cache tariff rate",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return rate, nil
}
