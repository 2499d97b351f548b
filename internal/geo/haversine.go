// Package geo computes great-circle distances on a spherical Earth.
package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Distance returns the haversine distance in meters between two points given in degrees.
// The result is finite and non-negative for latitudes in -90..90 and longitudes in -180..180.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda

	// rounding can push a just outside [0, 1] near coincident and antipodal points
	a = math.Max(0, math.Min(1, a))

	return 2 * EarthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Round rounds a distance in meters to one decimal place.
func Round(meters float64) float64 {
	return math.Round(meters*10) / 10
}
