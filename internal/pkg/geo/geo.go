package geo

import (
	"math"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
)

const earthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinOffice reports whether the coordinate falls inside the radius of any
// active office. A zero coordinate pair never matches: browser geolocation
// failures surface as (0,0) and must not pass by coincidence.
func IsWithinOffice(lat, lng float64, offices []office.Office) bool {
	if lat == 0 && lng == 0 {
		return false
	}

	for _, o := range offices {
		if !o.IsActive || o.RadiusMeters <= 0 {
			continue
		}
		if HaversineDistance(lat, lng, o.Latitude, o.Longitude) <= o.RadiusMeters {
			return true
		}
	}

	return false
}

// NearestOffice returns the closest active office and the distance to it in
// meters. Returns nil when no active office exists.
func NearestOffice(lat, lng float64, offices []office.Office) (*office.Office, float64) {
	var nearest *office.Office
	best := math.MaxFloat64

	for i := range offices {
		o := &offices[i]
		if !o.IsActive {
			continue
		}
		d := HaversineDistance(lat, lng, o.Latitude, o.Longitude)
		if d < best {
			best = d
			nearest = o
		}
	}

	if nearest == nil {
		return nil, 0
	}
	return nearest, best
}
