package maps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"location_picker/internal/geo"
	"location_picker/platform/config"
	"location_picker/platform/logger"
	"location_picker/platform/metrics"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "geocode:v1:"

type cachedLookup struct {
	Found bool    `json:"found"`
	Lat   float64 `json:"lat,omitempty"`
	Lon   float64 `json:"lon,omitempty"`
}

// CachedSearcher stores found and not-found answers of the wrapped Searcher in
// Redis. Failures are never cached, and a Redis error falls through to the
// wrapped Searcher.
type CachedSearcher struct {
	next Searcher
	rdb  redis.UniversalClient
	ttl  time.Duration
	log  *logger.Logger
}

func NewCachedSearcher(next Searcher, rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *CachedSearcher {
	return &CachedSearcher{next: next, rdb: rdb, ttl: ttl, log: log}
}

// NewRedisClient connects to the Redis instance named by cfg and pings it.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *CachedSearcher) Lookup(ctx context.Context, query string) (geo.Coordinate, error) {
	key := cacheKey(query)
	if key == cacheKeyPrefix {
		return c.next.Lookup(ctx, query)
	}

	if hit, ok := c.get(ctx, key); ok {
		metrics.CacheHits.Inc()
		if !hit.Found {
			return geo.Coordinate{}, ErrNotFound
		}
		return geo.Coordinate{Latitude: hit.Lat, Longitude: hit.Lon}, nil
	}
	metrics.CacheMisses.Inc()

	coord, err := c.next.Lookup(ctx, query)
	switch {
	case err == nil:
		c.set(ctx, key, cachedLookup{Found: true, Lat: coord.Latitude, Lon: coord.Longitude})
	case errors.Is(err, ErrNotFound):
		c.set(ctx, key, cachedLookup{Found: false})
	}
	return coord, err
}

func (c *CachedSearcher) get(ctx context.Context, key string) (cachedLookup, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("geocode cache read failed", "error", err)
		}
		return cachedLookup{}, false
	}

	var entry cachedLookup
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Warn("geocode cache entry corrupt", "key", key, "error", err)
		return cachedLookup{}, false
	}
	return entry, true
}

func (c *CachedSearcher) set(ctx context.Context, key string, entry cachedLookup) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("geocode cache write failed", "error", err)
	}
}

// cacheKey normalizes case and whitespace so equivalent queries share an entry.
func cacheKey(query string) string {
	return cacheKeyPrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

var _ Searcher = (*CachedSearcher)(nil)

// CacheHealth adapts the cache client to the router's readiness check.
type CacheHealth struct {
	rdb redis.UniversalClient
}

func NewCacheHealth(rdb redis.UniversalClient) *CacheHealth {
	return &CacheHealth{rdb: rdb}
}

func (h *CacheHealth) Ping(ctx context.Context) error {
	return h.rdb.Ping(ctx).Err()
}
