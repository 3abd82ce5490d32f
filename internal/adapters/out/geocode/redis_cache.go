package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

const cacheKeyPrefix = "geocode:"

// RedisCache stores resolved coordinates in Redis, keyed by a
// normalized form of the address query. A zero TTL keeps entries
// forever.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.GeocodeCache = (*RedisCache)(nil)

// NewRedisCache creates a cache over an existing Redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) (*RedisCache, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

type cachedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Get looks up coordinates for the query. A miss comes back as a false
// boolean, not an error.
func (c *RedisCache) Get(ctx context.Context, query string) (kernel.Location, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(query)).Result()
	if errors.Is(err, redis.Nil) {
		return kernel.Location{}, false, nil
	}
	if err != nil {
		return kernel.Location{}, false, err
	}

	var entry cachedLocation
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return kernel.Location{}, false, errs.NewValueIsInvalidErrorWithCause("cached location", err)
	}

	var location kernel.Location
	location.SetPosition(entry.Latitude, entry.Longitude)
	return location, true, nil
}

// Put stores coordinates for the query.
func (c *RedisCache) Put(ctx context.Context, query string, location kernel.Location) error {
	encoded, err := json.Marshal(cachedLocation{
		Latitude:  location.Latitude(),
		Longitude: location.Longitude(),
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(query), encoded, c.ttl).Err()
}

// cacheKey normalizes the query so trivially different spellings of the
// same address share an entry.
func cacheKey(query string) string {
	return cacheKeyPrefix + strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
