package marketdata

import (
	"context"
	"errors"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	"StockCast/pkg/cache"
	xlogger "StockCast/pkg/logger"
)

// CachedSource wraps a BarSource with a TTL cache keyed on (symbol, days).
// Caching fetched windows is an efficiency nicety only; forecasts themselves
// are always recomputed.
type CachedSource struct {
	next   repository.BarSource
	cache  cache.Service
	ttl    time.Duration
	logger *xlogger.Logger
}

// NewCachedSource decorates next with the given cache.
func NewCachedSource(next repository.BarSource, c cache.Service, ttl time.Duration, l *xlogger.Logger) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl, logger: l}
}

func (s *CachedSource) DailyBars(ctx context.Context, symbol string, days int) (*models.BarSeries, error) {
	key := cache.Key("bars", symbol, days)

	var cached models.BarSeries
	if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached.Bars) > 0 {
		return &cached, nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("bar cache read failed", xlogger.Error(err), xlogger.String("key", key))
	}

	series, err := s.next.DailyBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
		s.logger.Warn("bar cache write failed", xlogger.Error(err), xlogger.String("key", key))
	}
	return series, nil
}

var _ repository.BarSource = (*CachedSource)(nil)
