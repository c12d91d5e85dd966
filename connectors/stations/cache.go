package stations

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kilianp07/evroute/connectors"
	"github.com/kilianp07/evroute/core/model"
)

// CachedSource keeps recent station lists per corridor so repeated plans
// do not hit the feed.
type CachedSource struct {
	next  connectors.StationSource
	cache *expirable.LRU[connectors.Corridor, []model.ChargingStation]
}

// NewCachedSource wraps next with an LRU of size entries, each valid for
// ttl. A zero ttl keeps entries until evicted.
func NewCachedSource(next connectors.StationSource, size int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		next:  next,
		cache: expirable.NewLRU[connectors.Corridor, []model.ChargingStation](size, nil, ttl),
	}
}

func (c *CachedSource) Stations(ctx context.Context, corridor connectors.Corridor) ([]model.ChargingStation, error) {
	if st, ok := c.cache.Get(corridor); ok {
		return clone(st), nil
	}
	st, err := c.next.Stations(ctx, corridor)
	if err != nil {
		return nil, err
	}
	c.cache.Add(corridor, clone(st))
	return st, nil
}

// Snapping rewrites positions, so callers get their own copy.
func clone(st []model.ChargingStation) []model.ChargingStation {
	return append([]model.ChargingStation(nil), st...)
}
