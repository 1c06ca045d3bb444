package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"citylift/internal/geo"
)

func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}

func validateID(id string, errInvalid error) error {
	if !isUUID(id) {
		return errInvalid
	}
	return nil
}

// missing returns ErrMissingFields naming every blank field, or nil.
func missing(fields map[string]string, order ...string) error {
	var names []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(names, ", "))
}

func validateCoordinates(lat, lng *float64) (geo.Point, error) {
	if lat == nil || lng == nil {
		return geo.Point{}, ErrMissingCoordinates
	}
	if !geo.ValidLatitude(*lat) || !geo.ValidLongitude(*lng) {
		return geo.Point{}, ErrInvalidLocation
	}
	return geo.Point{Lat: *lat, Lng: *lng}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
