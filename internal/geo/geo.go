// Package geo provides great-circle distance math on a spherical Earth.
// The haversine approximation trades ellipsoidal accuracy for speed; it is
// called once per candidate row on spatial queries, so every function here
// is pure and allocation-free.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// WGS84 coordinates using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// WithinRadius reports whether the point lies inside the geofence centered
// at (centerLat, centerLon). The boundary is inclusive: a point at exactly
// radiusMeters is within the fence.
func WithinRadius(lat, lon, centerLat, centerLon, radiusMeters float64) bool {
	return Distance(lat, lon, centerLat, centerLon) <= radiusMeters
}

// BoundingBox returns the smallest latitude/longitude rectangle that
// contains the circle of radiusMeters around the center. It is a coarse
// pre-filter for an index on (latitude, longitude); the box is not a circle,
// so callers must discard false positives with an exact Distance check.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
	dLat := radiusMeters / EarthRadiusMeters * 180 / math.Pi

	minLat = math.Max(lat-dLat, -90)
	maxLat = math.Min(lat+dLat, 90)

	// Longitude degrees shrink with latitude. Near the poles cos(lat)
	// approaches zero and the box degenerates to the full longitude range.
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 1e-10 {
		return minLat, maxLat, -180, 180
	}
	dLon := dLat / cosLat
	if dLon >= 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, lon - dLon, lon + dLon
}
