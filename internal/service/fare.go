package service

import (
	"context"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"citylift/internal/geo"
)

const minutesPerKm = 3 // 20 km/h average

var (
	farePerMinute   = decimal.RequireFromString("0.20")
	defaultBaseFare = decimal.RequireFromString("2.00")

	baseFares = map[string]decimal.Decimal{
		"cable_car": decimal.RequireFromString("2.50"),
		"e_bike":    decimal.RequireFromString("1.75"),
		"e_scooter": decimal.RequireFromString("1.50"),
		"bus":       decimal.RequireFromString("1.25"),
		"shuttle":   decimal.RequireFromString("3.00"),
	}
)

// FareEstimate is the result of EstimateFare.
type FareEstimate struct {
	EtaMinutes int
	Fare       decimal.Decimal
}

// EstimateFare prices a trip of distanceKm in the given vehicle category.
// Unknown categories use the default base fare. distanceKm must be
// non-negative.
func EstimateFare(category string, distanceKm float64) FareEstimate {
	eta := int(math.Ceil(distanceKm * minutesPerKm))
	fare := baseFare(category).Add(farePerMinute.Mul(decimal.NewFromInt(int64(eta))))

	return FareEstimate{
		EtaMinutes: eta,
		Fare:       fare.Round(2),
	}
}

// baseFare looks up a category case-insensitively; "E-Bike", "e bike" and
// "E_BIKE" all resolve to e_bike.
func baseFare(category string) decimal.Decimal {
	key := strings.ToLower(strings.TrimSpace(category))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if base, ok := baseFares[key]; ok {
		return base
	}
	return defaultBaseFare
}

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}

// FareService quotes fares, resolving addresses when no distance is given.
type FareService struct {
	geocoder Geocoder
}

// NewFareService creates a new FareService. geocoder may be nil.
func NewFareService(geocoder Geocoder) *FareService {
	return &FareService{geocoder: geocoder}
}

// QuoteRequest contains the parameters for a fare quote.
type QuoteRequest struct {
	Category      string
	DistanceKm    *float64 // Optional: resolved from the locations when nil
	StartLocation string
	EndLocation   string
}

// Quote is a priced trip.
type Quote struct {
	Category   string
	DistanceKm float64
	EtaMinutes int
	Fare       decimal.Decimal
}

// Quote prices a trip.
func (s *FareService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	var distanceKm float64

	if req.DistanceKm != nil {
		distanceKm = *req.DistanceKm
		if !isFinite(distanceKm) || distanceKm < 0 {
			return nil, ErrInvalidDistance
		}
	} else {
		if err := missing(map[string]string{
			"startLocation": req.StartLocation,
			"endLocation":   req.EndLocation,
		}, "startLocation", "endLocation"); err != nil {
			return nil, err
		}
		if s.geocoder == nil {
			return nil, ErrGeocoderUnavailable
		}

		start, err := s.geocoder.Geocode(ctx, req.StartLocation)
		if err != nil {
			return nil, err
		}
		end, err := s.geocoder.Geocode(ctx, req.EndLocation)
		if err != nil {
			return nil, err
		}
		distanceKm = geo.Distance(start, end)
	}

	estimate := EstimateFare(req.Category, distanceKm)

	return &Quote{
		Category:   req.Category,
		DistanceKm: distanceKm,
		EtaMinutes: estimate.EtaMinutes,
		Fare:       estimate.Fare,
	}, nil
}
