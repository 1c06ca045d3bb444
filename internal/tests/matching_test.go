package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"citylift/internal/domain"
	"citylift/internal/geo"
	"citylift/internal/redis"
	"citylift/internal/service"
)

// activateAt registers a driver with a fresh vehicle at lat,lng.
func (f *fixture) activateAt(t *testing.T, status domain.VehicleStatus, lat, lng float64) (*domain.User, *domain.Vehicle) {
	t.Helper()

	driver := f.addUser(domain.UserRoleDriver)
	vehicle := f.addVehicle(status)
	if _, err := f.activationService().Activate(context.Background(), activateRequest(driver.ID, vehicle.ID, lat, lng)); err != nil {
		t.Fatalf("activate: %v", err)
	}
	return driver, vehicle
}

func TestMatching_FindsDriverInsideBox(t *testing.T) {
	f := newFixture(t)
	driver, vehicle := f.activateAt(t, domain.VehicleStatusAvailable, 0.0005, 0.0005)
	f.activateAt(t, domain.VehicleStatusAvailable, 0.001, 0)

	results, err := f.matchingService(service.MatchingOptions{}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(0), Lng: ptr(0), RadiusKm: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got.Driver.ID != driver.ID || got.Vehicle.ID != vehicle.ID {
		t.Errorf("unexpected match: driver=%s vehicle=%s", got.Driver.ID, got.Vehicle.ID)
	}
	want := geo.DistanceKm(0, 0, 0.0005, 0.0005)
	if math.Abs(got.DistanceKm-want) > 1e-9 {
		t.Errorf("expected distance %f, got %f", want, got.DistanceKm)
	}
}

func TestMatching_SkipsUnavailableVehicles(t *testing.T) {
	f := newFixture(t)
	f.activateAt(t, domain.VehicleStatusInUse, 0.0001, 0.0001)
	f.activateAt(t, domain.VehicleStatusMaintenance, 0.0002, 0.0002)
	_, available := f.activateAt(t, domain.VehicleStatusAvailable, 0.0003, 0.0003)

	results, err := f.matchingService(service.MatchingOptions{}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(0), Lng: ptr(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Vehicle.ID != available.ID {
		t.Errorf("expected only the available vehicle, got %d results", len(results))
	}
}

func TestMatching_SortedByDistance(t *testing.T) {
	f := newFixture(t)
	far, _ := f.activateAt(t, domain.VehicleStatusAvailable, 0.0006, 0)
	near, _ := f.activateAt(t, domain.VehicleStatusAvailable, 0.0001, 0)
	mid, _ := f.activateAt(t, domain.VehicleStatusAvailable, 0, 0.0003)

	results, err := f.matchingService(service.MatchingOptions{}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(0), Lng: ptr(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := []string{near.ID, mid.ID, far.ID}
	for i, r := range results {
		if r.Driver.ID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], r.Driver.ID)
		}
	}
}

func TestMatching_DefaultRadius(t *testing.T) {
	f := newFixture(t)

	_, err := f.matchingService(service.MatchingOptions{}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(10), Lng: ptr(20),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := geo.DegreeOffsetBox(geo.Point{Lat: 10, Lng: 20}, 5)
	if f.activations.LastBox != want {
		t.Errorf("expected box %+v, got %+v", want, f.activations.LastBox)
	}
}

func TestMatching_InvalidInput_Rejected(t *testing.T) {
	f := newFixture(t)
	matchingService := f.matchingService(service.MatchingOptions{})

	testCases := []struct {
		name    string
		req     service.FindNearbyRequest
		wantErr error
	}{
		{"missing coordinates", service.FindNearbyRequest{}, service.ErrMissingCoordinates},
		{"missing longitude", service.FindNearbyRequest{Lat: ptr(1)}, service.ErrMissingCoordinates},
		{"latitude out of range", service.FindNearbyRequest{Lat: ptr(-90.5), Lng: ptr(0)}, service.ErrInvalidLocation},
		{"negative radius", service.FindNearbyRequest{Lat: ptr(0), Lng: ptr(0), RadiusKm: -1}, service.ErrInvalidRadius},
		{"infinite radius", service.FindNearbyRequest{Lat: ptr(0), Lng: ptr(0), RadiusKm: math.Inf(1)}, service.ErrInvalidRadius},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matchingService.FindNearby(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if f.activations.FindCallCount != 0 {
		t.Error("repository must not be queried for invalid input")
	}
}

func TestMatching_ExactRadius_FiltersBoxCorners(t *testing.T) {
	f := newFixture(t)
	inside, _ := f.activateAt(t, domain.VehicleStatusAvailable, 0.02, 0) // ~2.2 km
	f.activateAt(t, domain.VehicleStatusAvailable, 0.035, 0.035)         // ~5.5 km, inside the box
	f.activateAt(t, domain.VehicleStatusAvailable, 0.1, 0)               // outside the box

	results, err := f.matchingService(service.MatchingOptions{ExactRadius: true}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(0), Lng: ptr(0), RadiusKm: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 || results[0].Driver.ID != inside.ID {
		t.Fatalf("expected only the driver within 5 km, got %d results", len(results))
	}
	for _, r := range results {
		if r.DistanceKm > 5 {
			t.Errorf("result beyond radius: %f km", r.DistanceKm)
		}
	}
}

func TestMatching_CachesUntilAvailabilityChanges(t *testing.T) {
	f := newFixture(t)
	f.activateAt(t, domain.VehicleStatusAvailable, 0.0001, 0)
	matchingService := f.matchingService(service.MatchingOptions{})
	req := service.FindNearbyRequest{Lat: ptr(0), Lng: ptr(0)}

	if _, err := matchingService.FindNearby(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cached, err := matchingService.FindNearby(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.activations.FindCallCount != 1 || f.cache.HitCount != 1 {
		t.Fatalf("expected one query and one cache hit, got %d and %d", f.activations.FindCallCount, f.cache.HitCount)
	}
	if len(cached) != 1 {
		t.Errorf("expected cached result, got %d", len(cached))
	}

	// A new activation invalidates the cache.
	f.activateAt(t, domain.VehicleStatusAvailable, 0.0002, 0)

	fresh, err := matchingService.FindNearby(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.activations.FindCallCount != 2 {
		t.Errorf("expected a fresh query, got %d queries", f.activations.FindCallCount)
	}
	if len(fresh) != 2 {
		t.Errorf("expected 2 results after invalidation, got %d", len(fresh))
	}
}

func TestNearbyCache_StaleWriteAfterInvalidationIsNotServed(t *testing.T) {
	cache := NewMockNearbyCache()
	ctx := context.Background()

	gen, _ := cache.NearbyGeneration(ctx)
	key := redis.NearbyKey{Generation: gen, Lat: 0, Lng: 0, RadiusKm: 5}

	// Availability changes while the query is in flight.
	_ = cache.InvalidateNearby(ctx)
	_ = cache.SetNearby(ctx, key, []*domain.NearbyDriver{{}})

	next, _ := cache.NearbyGeneration(ctx)
	if _, ok, _ := cache.GetNearby(ctx, redis.NearbyKey{Generation: next, Lat: 0, Lng: 0, RadiusKm: 5}); ok {
		t.Error("result computed before invalidation must not be served")
	}
}

func TestMatching_CacheError_FallsBackToRepository(t *testing.T) {
	f := newFixture(t)
	f.activateAt(t, domain.VehicleStatusAvailable, 0.0001, 0)
	f.cache.GetError = ErrMockFailure

	results, err := f.matchingService(service.MatchingOptions{}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(0), Lng: ptr(0),
	})
	if err != nil {
		t.Fatalf("cache failures must not fail the search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestMatching_RepositoryError_Propagates(t *testing.T) {
	f := newFixture(t)
	f.activations.FindError = ErrMockFailure

	_, err := f.matchingService(service.MatchingOptions{}).FindNearby(context.Background(), service.FindNearbyRequest{
		Lat: ptr(0), Lng: ptr(0),
	})
	if !errors.Is(err, ErrMockFailure) {
		t.Errorf("expected injected failure, got %v", err)
	}
}
