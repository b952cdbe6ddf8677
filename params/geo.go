package params

import "time"

// Speed band for plausible courier movement. Segment speeds outside
// [MinSpeedThreshold, MaxRealisticSpeed] are excluded from min/max rollups.
const (
	MinSpeedThresholdKmh = 0.5
	MaxRealisticSpeedKmh = 120.0
)

// StationaryConfig controls dwell (stop) detection.
type StationaryConfig struct {
	// DwellDistance separates stops by distance (meters from the anchor fix).
	DwellDistance float64
	// DwellInterval is the minimum time a cluster must span to count as a stop.
	DwellInterval time.Duration
}

var DefaultStationaryConfig = &StationaryConfig{
	DwellDistance: 50,
	DwellInterval: 5 * time.Minute,
}

// GeofenceConfig carries zone defaults.
type GeofenceConfig struct {
	// DefaultRadius (meters) is used when a zone is registered without one.
	DefaultRadius float64
}

var DefaultGeofenceConfig = &GeofenceConfig{
	DefaultRadius: 100,
}

// DefaultWindowInterval is the default span for time-window partitioning.
var DefaultWindowInterval = time.Hour

// StopClusterCellLevel is the S2 cell level used to key stop locations.
// Level 16 is roughly a city block.
var StopClusterCellLevel = 16
