package rates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/F-O-T/montte-core/internal/models"
	"github.com/F-O-T/montte-core/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "montte:rates:latest"

// CachedProvider caches snapshots in redis so repeated accrual runs within
// the TTL do not hit the rate source again. Cache failures are logged and
// treated as misses, never surfaced to the caller.
type CachedProvider struct {
	client *redis.Client
	inner  Provider
	ttl    time.Duration
	log    logger.Logger
}

// NewCachedProvider creates a caching decorator over the given provider
func NewCachedProvider(addr string, inner Provider, ttl time.Duration, log logger.Logger) *CachedProvider {
	if log == nil {
		log = logger.NewNopLogger()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &CachedProvider{
		client: rdb,
		inner:  inner,
		ttl:    ttl,
		log:    log.WithComponent("rates-cache"),
	}
}

// Fetch returns the cached snapshot when present, otherwise fetches through
// the inner provider and stores the result.
func (p *CachedProvider) Fetch(ctx context.Context) (models.RateSnapshot, error) {
	if cached, ok := p.get(ctx); ok {
		return cached, nil
	}

	snapshot, err := p.inner.Fetch(ctx)
	if err != nil {
		return models.RateSnapshot{}, err
	}

	p.set(ctx, snapshot)
	return snapshot, nil
}

// Close releases the redis connection
func (p *CachedProvider) Close() error {
	return p.client.Close()
}

func (p *CachedProvider) get(ctx context.Context) (models.RateSnapshot, bool) {
	val, err := p.client.Get(ctx, cacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			p.log.WithError(err).Warn("rate cache read failed")
		}
		return models.RateSnapshot{}, false
	}

	var snapshot models.RateSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		p.log.WithError(err).Warn("rate cache entry corrupted, discarding")
		return models.RateSnapshot{}, false
	}

	return snapshot, true
}

func (p *CachedProvider) set(ctx context.Context, snapshot models.RateSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		p.log.WithError(err).Warn("rate snapshot marshal failed")
		return
	}

	if err := p.client.Set(ctx, cacheKey, string(data), p.ttl).Err(); err != nil {
		p.log.WithError(err).Warn("rate cache write failed")
	}
}
