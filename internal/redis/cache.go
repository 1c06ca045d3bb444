package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"citylift/internal/domain"
)

// DefaultNearbyCacheTTL bounds how long a proximity result may be served.
const DefaultNearbyCacheTTL = 5 * time.Second

// Key prefixes
const (
	nearbyCachePrefix   = "cache:nearby:"
	nearbyGenerationKey = "cache:nearby:generation"
)

// NearbyKey identifies one proximity query.
type NearbyKey struct {
	Generation int64 // From NearbyGeneration, read before the query runs
	Lat        float64
	Lng        float64
	RadiusKm   float64
	Exact      bool
}

// String renders the key with ~1m precision.
func (k NearbyKey) String() string {
	mode := "box"
	if k.Exact {
		mode = "exact"
	}
	return fmt.Sprintf("%d:%.5f:%.5f:%.3f:%s", k.Generation, k.Lat, k.Lng, k.RadiusKm, mode)
}

// CacheStore caches proximity results in Redis. Entries are namespaced by a
// generation counter; bumping it orphans every entry at once and TTL reclaims
// them.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore. A non-positive ttl uses
// DefaultNearbyCacheTTL.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultNearbyCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// cachedNearby is the stored form of a proximity result.
type cachedNearby struct {
	Results []*domain.NearbyDriver `json:"results"`
}

// NearbyGeneration returns the current cache generation.
func (s *CacheStore) NearbyGeneration(ctx context.Context) (int64, error) {
	gen, err := s.client.Get(ctx, nearbyGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetNearby retrieves a proximity result from cache.
func (s *CacheStore) GetNearby(ctx context.Context, key NearbyKey) ([]*domain.NearbyDriver, bool, error) {
	data, err := s.client.Get(ctx, nearbyCachePrefix+key.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, err
	}

	var cached cachedNearby
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, err
	}
	return cached.Results, true, nil
}

// SetNearby stores a proximity result under the generation carried by key. A
// result computed before an invalidation lands in the old generation and is
// never read.
func (s *CacheStore) SetNearby(ctx context.Context, key NearbyKey, results []*domain.NearbyDriver) error {
	data, err := json.Marshal(cachedNearby{Results: results})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, nearbyCachePrefix+key.String(), data, s.ttl).Err()
}

// InvalidateNearby bumps the generation so later reads miss.
func (s *CacheStore) InvalidateNearby(ctx context.Context) error {
	return s.client.Incr(ctx, nearbyGenerationKey).Err()
}
