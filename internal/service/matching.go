package service

import (
	"cmp"
	"context"
	"slices"

	"citylift/internal/domain"
	"citylift/internal/geo"
	"citylift/internal/redis"
	"citylift/internal/repository"
)

const defaultSearchRadiusKm = 5.0

// MatchingOptions configures proximity search.
type MatchingOptions struct {
	DefaultRadiusKm float64 // 0 uses 5 km
	// ExactRadius searches a true bounding box and drops results beyond the
	// great-circle radius. Otherwise the degree-offset approximation is used
	// unfiltered.
	ExactRadius bool
}

// MatchingService finds available drivers near a point.
type MatchingService struct {
	activationRepo repository.ActivationRepository
	cacheStore     redis.NearbyCacheInterface
	opts           MatchingOptions
}

// NewMatchingService creates a new MatchingService. cacheStore may be nil.
func NewMatchingService(
	activationRepo repository.ActivationRepository,
	cacheStore redis.NearbyCacheInterface,
	opts MatchingOptions,
) *MatchingService {
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = defaultSearchRadiusKm
	}
	return &MatchingService{
		activationRepo: activationRepo,
		cacheStore:     cacheStore,
		opts:           opts,
	}
}

// FindNearbyRequest contains the parameters for a proximity search.
type FindNearbyRequest struct {
	Lat      *float64
	Lng      *float64
	RadiusKm float64 // Optional: 0 uses the default
}

// FindNearby returns active drivers whose vehicle is AVAILABLE within the
// search area, nearest first.
func (s *MatchingService) FindNearby(ctx context.Context, req FindNearbyRequest) ([]*domain.NearbyDriver, error) {
	center, err := validateCoordinates(req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}

	radiusKm := req.RadiusKm
	if !isFinite(radiusKm) || radiusKm < 0 {
		return nil, ErrInvalidRadius
	}
	if radiusKm == 0 {
		radiusKm = s.opts.DefaultRadiusKm
	}

	key := redis.NearbyKey{Lat: center.Lat, Lng: center.Lng, RadiusKm: radiusKm, Exact: s.opts.ExactRadius}
	cacheStore := s.cacheStore
	if cacheStore != nil {
		gen, err := cacheStore.NearbyGeneration(ctx)
		if err != nil {
			cacheStore = nil // Redis trouble: serve uncached
		} else {
			key.Generation = gen
			if cached, ok, err := cacheStore.GetNearby(ctx, key); err == nil && ok {
				return cached, nil
			}
		}
	}

	box := geo.DegreeOffsetBox(center, radiusKm)
	if s.opts.ExactRadius {
		box = geo.ExactBox(center, radiusKm)
	}

	candidates, err := s.activationRepo.FindAvailableInBox(ctx, box)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.NearbyDriver, 0, len(candidates))
	for _, c := range candidates {
		c.DistanceKm = geo.DistanceKm(center.Lat, center.Lng, c.Activation.Latitude, c.Activation.Longitude)
		if s.opts.ExactRadius && c.DistanceKm > radiusKm {
			continue
		}
		results = append(results, c)
	}

	slices.SortStableFunc(results, func(a, b *domain.NearbyDriver) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	if cacheStore != nil {
		_ = cacheStore.SetNearby(ctx, key, results)
	}

	return results, nil
}

// invalidateNearby drops cached proximity results after an availability write.
func invalidateNearby(ctx context.Context, cacheStore redis.NearbyCacheInterface) {
	if cacheStore == nil {
		return
	}
	_ = cacheStore.InvalidateNearby(ctx)
}
