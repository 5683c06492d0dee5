package records

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
)

// Ensure CachedLookup implements the interface.
var _ driven.RecordLookup = (*CachedLookup)(nil)

// CachedLookup keeps resolved records for a fixed time.
// Failed lookups are not cached.
type CachedLookup struct {
	next  driven.RecordLookup
	cache *cache.Cache
}

// NewCachedLookup wraps next. A non-positive ttl returns next unchanged.
func NewCachedLookup(next driven.RecordLookup, ttl time.Duration) driven.RecordLookup {
	if ttl <= 0 || next == nil {
		return next
	}
	return &CachedLookup{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Lookup returns a cached copy or asks the wrapped lookup.
func (c *CachedLookup) Lookup(ctx context.Context, ref domain.RecordRef) (*domain.Record, error) {
	key := cacheKey(ref)
	if x, found := c.cache.Get(key); found {
		r := copyRecord(x.(domain.Record))
		return &r, nil
	}

	r, err := c.next.Lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, copyRecord(*r), cache.DefaultExpiration)
	return r, nil
}

// Invalidate drops one cached record.
func (c *CachedLookup) Invalidate(ref domain.RecordRef) {
	c.cache.Delete(cacheKey(ref))
}

// Flush drops every cached record.
func (c *CachedLookup) Flush() {
	c.cache.Flush()
}

func cacheKey(ref domain.RecordRef) string {
	return string(ref.Kind) + "/" + ref.ID
}

func copyRecord(r domain.Record) domain.Record {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	r.Fields = fields
	return r
}
