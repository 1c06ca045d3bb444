package redis

import (
	"context"
	"time"

	"citylift/internal/domain"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireActivationLock(ctx context.Context, driverID string, ttl time.Duration) (bool, error)
	ReleaseActivationLock(ctx context.Context, driverID string) error
}

// NearbyCacheInterface defines the interface for caching proximity results.
type NearbyCacheInterface interface {
	// NearbyGeneration returns the generation to stamp on keys before a query.
	NearbyGeneration(ctx context.Context) (int64, error)
	// GetNearby returns cached results; ok is false on a miss.
	GetNearby(ctx context.Context, key NearbyKey) (results []*domain.NearbyDriver, ok bool, err error)
	SetNearby(ctx context.Context, key NearbyKey, results []*domain.NearbyDriver) error
	// InvalidateNearby makes every cached result unreachable.
	InvalidateNearby(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface   = (*LockStore)(nil)
	_ NearbyCacheInterface = (*CacheStore)(nil)
)
