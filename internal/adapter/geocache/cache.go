// Package geocache memoizes GeoResolver lookups by place name.
package geocache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/outbreak-etl/internal/domain"
	"github.com/couchcryptid/outbreak-etl/internal/observability"
)

// Resolver wraps a GeoResolver with an in-memory TTL cache. Found results are
// kept for ttl, empty results for missTTL and errors are never cached.
// Concurrent lookups of the same place share one upstream call.
type Resolver struct {
	inner   domain.GeoResolver
	cache   *gocache.Cache
	group   singleflight.Group
	ttl     time.Duration
	missTTL time.Duration
	metrics *observability.Metrics
}

// New creates a caching decorator around inner.
func New(inner domain.GeoResolver, ttl, missTTL time.Duration, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		inner:   inner,
		cache:   gocache.New(ttl, 2*ttl),
		ttl:     ttl,
		missTTL: missTTL,
		metrics: metrics,
	}
}

// Resolve returns the cached result for searchTerm or asks the wrapped resolver.
func (r *Resolver) Resolve(ctx context.Context, searchTerm string) (domain.GeocodingResult, error) {
	key := cacheKey(searchTerm)
	if v, ok := r.cache.Get(key); ok {
		r.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	r.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	v, err, _ := r.group.Do(key, func() (any, error) {
		result, err := r.inner.Resolve(ctx, searchTerm)
		if err != nil {
			return domain.GeocodingResult{}, err
		}
		ttl := r.ttl
		if !result.Found() {
			ttl = r.missTTL
		}
		r.cache.Set(key, result, ttl)
		return result, nil
	})
	if err != nil {
		return domain.GeocodingResult{}, err
	}
	return v.(domain.GeocodingResult), nil
}

// Len returns the number of cached entries, expired ones included until the
// next cleanup.
func (r *Resolver) Len() int {
	return r.cache.ItemCount()
}

func cacheKey(searchTerm string) string {
	return strings.ToLower(strings.TrimSpace(searchTerm))
}
