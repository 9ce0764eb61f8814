package directory

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ppiankov/legisref/internal/model"
)

// Throttled limits the rate of lookups reaching the wrapped directory
type Throttled struct {
	next    Finder
	limiter *rate.Limiter
}

// NewThrottled allows perSecond lookups with the given burst
func NewThrottled(next Finder, perSecond float64, burst int) *Throttled {
	if burst <= 0 {
		burst = 5
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Find waits for a token, then delegates
func (t *Throttled) Find(ctx context.Context, filter model.Filter) ([]model.Legislator, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("directory rate limit: %w", err)
	}
	return t.next.Find(ctx, filter)
}
