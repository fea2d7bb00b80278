package geo

import (
	"math"

	"gigmatch/models"
)

// DistanceProvider answers distance questions for radius filtering.
// ok is false when either point is unresolved and no distance can be given.
type DistanceProvider interface {
	DistanceKm(a, b models.GeoPoint) (km float64, ok bool)
}

// Haversine computes great-circle distances from raw coordinates.
type Haversine struct{}

func (Haversine) DistanceKm(a, b models.GeoPoint) (float64, bool) {
	if a.IsZero() || b.IsZero() {
		return 0, false
	}
	return haversine(a.Lat, a.Lng, b.Lat, b.Lng), true
}

// Unresolved never resolves a distance, which disables radius filtering.
type Unresolved struct{}

func (Unresolved) DistanceKm(models.GeoPoint, models.GeoPoint) (float64, bool) {
	return 0, false
}

// WithinRadius reports whether b lies within radiusKm of a. Unknown distances
// and non-positive radii pass.
func WithinRadius(p DistanceProvider, a, b models.GeoPoint, radiusKm float64) bool {
	if p == nil || radiusKm <= 0 {
		return true
	}
	km, ok := p.DistanceKm(a, b)
	if !ok {
		return true
	}
	return km <= radiusKm
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
