package directory

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/legisref/internal/cache"
	"github.com/ppiankov/legisref/internal/model"
)

// Finder looks up legislators matching a filter
type Finder interface {
	Find(ctx context.Context, filter model.Filter) ([]model.Legislator, error)
}

// Cached remembers lookup results keyed by filter
type Cached struct {
	next   Finder
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps next with c. A ttl of 0 uses the cache's default.
func NewCached(next Finder, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Find serves from the cache when possible and stores misses
func (c *Cached) Find(ctx context.Context, filter model.Filter) ([]model.Legislator, error) {
	key := cache.Key("directory", filter.String())

	if data, ok := c.cache.Get(key); ok {
		var cached []model.Legislator
		if err := json.Unmarshal(data, &cached); err == nil {
			c.logger.Debug("directory cache hit", zap.String("filter", filter.String()))
			return cached, nil
		}
		// Undecodable entry, fall through to the directory
		_ = c.cache.Delete(key)
	}

	matches, err := c.next.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(matches)
	if err == nil {
		err = c.cache.Set(key, data, c.ttl)
	}
	if err != nil {
		c.logger.Warn("failed to cache directory lookup",
			zap.String("filter", filter.String()),
			zap.Error(err),
		)
	}

	return matches, nil
}
