package rates

import (
	"context"

	"github.com/F-O-T/montte-core/internal/models"
	"github.com/F-O-T/montte-core/pkg/logger"
)

// fallbackProvider degrades to the documented default snapshot when the
// wrapped provider fails, and sanitizes non-positive rates in partial
// snapshots.
type fallbackProvider struct {
	inner Provider
	log   logger.Logger
}

// WithFallback wraps a provider with the fallback policy: a fetch failure
// yields models.DefaultRateSnapshot, and any fetched non-positive rate is
// replaced with its default value. The returned provider never fails.
func WithFallback(inner Provider, log logger.Logger) Provider {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &fallbackProvider{
		inner: inner,
		log:   log.WithComponent("rates"),
	}
}

// Fetch implements Provider
func (p *fallbackProvider) Fetch(ctx context.Context) (models.RateSnapshot, error) {
	snapshot, err := p.inner.Fetch(ctx)
	if err != nil {
		p.log.WithError(err).Warn("rate source unavailable, using fallback snapshot")
		return models.DefaultRateSnapshot(), nil
	}

	if !snapshot.IsValid() {
		p.log.WithField("snapshot", snapshot.String()).Warn("rate source returned non-positive rates, sanitizing")
		return snapshot.Sanitize(), nil
	}

	return snapshot, nil
}
