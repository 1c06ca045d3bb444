// Package geocode resolves addresses to coordinates with the Google Maps
// Geocoding API.
package geocode

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"citylift/internal/geo"
	"citylift/internal/service"
)

// geocodingClient is the subset of *maps.Client the geocoder needs.
type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleGeocoder implements service.Geocoder.
type GoogleGeocoder struct {
	client geocodingClient
	region string
}

var _ service.Geocoder = (*GoogleGeocoder)(nil)

// NewGoogleGeocoder creates a geocoder for the given API key. region biases
// results toward a ccTLD such as "rw"; empty means no bias.
func NewGoogleGeocoder(apiKey, region string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, region: region}, nil
}

// Geocode returns the location of the best match for address.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  g.region,
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return geo.Point{}, fmt.Errorf("%w: %s", service.ErrLocationNotFound, address)
		}
		return geo.Point{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(results) == 0 {
		return geo.Point{}, fmt.Errorf("%w: %s", service.ErrLocationNotFound, address)
	}

	loc := results[0].Geometry.Location
	return geo.Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
