// README: Redis-backed cache for geocode results (nil-safe, optional).
package maps

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const geocodeKeyPrefix = "topptaxi:geocode:"

// GeocodeCache stores resolved geocode results in Redis so repeated quote
// requests for the same endpoints do not hit the provider again. A nil
// *GeocodeCache is valid and disables caching entirely.
type GeocodeCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGeocodeCache(rdb *redis.Client, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{rdb: rdb, ttl: ttl}
}

func cacheKey(query string) string {
	return geocodeKeyPrefix + strings.ToLower(strings.TrimSpace(query))
}

func (c *GeocodeCache) Get(ctx context.Context, query string) (GeoResult, bool) {
	if c == nil || c.rdb == nil || query == "" {
		return GeoResult{}, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		return GeoResult{}, false
	}
	var res GeoResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return GeoResult{}, false
	}
	return res, true
}

func (c *GeocodeCache) Set(ctx context.Context, query string, res GeoResult) {
	if c == nil || c.rdb == nil || query == "" {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	// Best effort; a failed cache write never fails the request.
	_ = c.rdb.Set(ctx, cacheKey(query), raw, c.ttl).Err()
}
