package flightdata

import (
	"strings"
	"time"

	"airport-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// Cache is the process-wide flight record cache, keyed by
// (flight number, normalized date). go-cache drops entries lazily on read
// once past the TTL, and a janitor sweeps in the background; writes are
// idempotent, so concurrent sessions re-caching the same key is harmless.
type Cache struct {
	c *cache.Cache
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{c: cache.New(ttl, 2*ttl)}
}

func cacheKey(flightNumber, date string) string {
	return strings.ToUpper(flightNumber) + "|" + date
}

func (fc *Cache) Get(flightNumber, date string) (*store.FlightRecord, bool) {
	if x, found := fc.c.Get(cacheKey(flightNumber, date)); found {
		return x.(*store.FlightRecord), true
	}
	return nil, false
}

func (fc *Cache) Set(record *store.FlightRecord) {
	fc.c.Set(cacheKey(record.FlightNumber, record.Date), record, cache.DefaultExpiration)
}

// Clear empties the cache; lifecycle hook for tests.
func (fc *Cache) Clear() {
	fc.c.Flush()
}
