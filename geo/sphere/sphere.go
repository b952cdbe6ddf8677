// Package sphere provides great-circle geometry over WGS84-ish lat/lon
// degrees. It is the only place the repo does trigonometry; everything
// downstream (segmenting, geofencing, dwell detection) is built on these
// two functions.
package sphere

import "math"

// EarthRadiusKm is the mean Earth radius used for all great-circle math.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Distance returns the Haversine great-circle distance in kilometers.
// It is symmetric and returns exactly 0 for identical inputs. The inner
// square root argument is clamped to [0,1]; floating error near antipodal
// or polar pairs can otherwise push it just outside the domain of Sqrt.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceMeters is Distance in meters.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	return Distance(lat1, lon1, lat2, lon2) * 1000
}

// Bearing returns the initial compass bearing from point 1 to point 2,
// in degrees normalized to [0,360).
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dLon := toRadians(lon2 - lon1)
	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) -
		math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	deg := toDegrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}
