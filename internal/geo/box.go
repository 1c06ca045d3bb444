package geo

import "math"

// BoundingBox is a rectangle in degree space. It does not wrap across the
// anti-meridian.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// DegreeOffset converts a radius to the degree offset used by the cheap
// pre-filter: radiusKm / EarthRadiusKm, applied unchanged to both axes.
func DegreeOffset(radiusKm float64) float64 {
	return radiusKm / EarthRadiusKm
}

// DegreeOffsetBox is the city-scale approximation of a search circle: a square
// of side 2*DegreeOffset(radiusKm) around center. It is not a true circle and
// is distorted near the poles and the anti-meridian.
func DegreeOffsetBox(center Point, radiusKm float64) BoundingBox {
	offset := DegreeOffset(radiusKm)
	return BoundingBox{
		MinLat: center.Lat - offset,
		MaxLat: center.Lat + offset,
		MinLng: center.Lng - offset,
		MaxLng: center.Lng + offset,
	}
}

// ExactBox returns a degree box that contains every point within radiusKm of
// center along the great circle. Longitude span widens with latitude and
// covers the full range when the circle reaches a pole or crosses the
// anti-meridian.
func ExactBox(center Point, radiusKm float64) BoundingBox {
	angular := radiusKm / EarthRadiusKm
	latOffset := radiansToDegrees(angular)

	box := BoundingBox{
		MinLat: math.Max(-90, center.Lat-latOffset),
		MaxLat: math.Min(90, center.Lat+latOffset),
		MinLng: -180,
		MaxLng: 180,
	}

	cosLat := math.Cos(degreesToRadians(center.Lat))
	if s := math.Sin(angular); s < cosLat {
		lngOffset := radiansToDegrees(math.Asin(s / cosLat))
		minLng, maxLng := center.Lng-lngOffset, center.Lng+lngOffset
		if minLng >= -180 && maxLng <= 180 {
			box.MinLng, box.MaxLng = minLng, maxLng
		}
	}

	return box
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
