// Package route turns ordered GPS fix sequences into route segments and
// session-level metrics. Everything here is a pure function; callers own the
// inputs and are expected to hand fixes in chronological order (see
// track.SlicesSortFunc).
package route

import (
	"github.com/montanaflynn/stats"
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/geo/sphere"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// Segment is the leg between two consecutive fixes within a session.
// Derived, never persisted.
type Segment struct {
	Start track.Position `json:"start"`
	End   track.Position `json:"end"`

	DistanceKm  float64 `json:"distanceKm"`
	DurationSec float64 `json:"durationSec"` // floored at 1s
	SpeedKmh    float64 `json:"speedKmh"`
	BearingDeg  float64 `json:"bearingDeg"`
}

// Metrics aggregates the segments of one session.
type Metrics struct {
	TotalDistanceKm    float64   `json:"totalDistanceKm"`
	SegmentDistancesKm []float64 `json:"segmentDistancesKm,omitempty"`
	TotalTimeSec       float64   `json:"totalTimeSec"`
	AverageSpeedKmh    float64   `json:"averageSpeedKmh"`

	// Max/min are computed only over segment speeds inside the realistic
	// band [params.MinSpeedThresholdKmh, params.MaxRealisticSpeedKmh];
	// both are 0 when no segment qualifies.
	MaxSpeedKmh float64 `json:"maxSpeedKmh"`
	MinSpeedKmh float64 `json:"minSpeedKmh"`
}

// Segments builds ordered route segments from consecutive fix pairs.
// Fewer than two fixes yields an empty slice. Durations are floored at one
// second, which keeps the derived speed finite for same-second fixes.
func Segments(points []track.Position) []Segment {
	if len(points) < 2 {
		return []Segment{}
	}
	out := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1], points[i]
		dist := sphere.Distance(prev.Lat, prev.Lon, cur.Lat, cur.Lon)
		dur := cur.Time.Sub(prev.Time).Seconds()
		if dur < 1 {
			dur = 1
		}
		out = append(out, Segment{
			Start:       prev,
			End:         cur,
			DistanceKm:  common.DecimalToFixed(dist, 3),
			DurationSec: dur,
			SpeedKmh:    common.DecimalToFixed(dist/(dur/3600), 2),
			BearingDeg:  common.DecimalToFixed(sphere.Bearing(prev.Lat, prev.Lon, cur.Lat, cur.Lon), 1),
		})
	}
	return out
}

// CalculateMetrics rolls a fix sequence into session metrics.
//
// Total time is the wall-clock span between the first and last fix, not the
// sum of segment durations. The two diverge for unordered input and for
// same-second fixes (segment durations floor at 1s); downstream consumers
// depend on the wall-clock definition.
func CalculateMetrics(points []track.Position) Metrics {
	if len(points) < 2 {
		return Metrics{SegmentDistancesKm: []float64{}}
	}
	segments := Segments(points)

	total := 0.0
	distances := make([]float64, 0, len(segments))
	banded := make([]float64, 0, len(segments))
	for _, seg := range segments {
		total += seg.DistanceKm
		distances = append(distances, seg.DistanceKm)
		if seg.SpeedKmh >= params.MinSpeedThresholdKmh &&
			seg.SpeedKmh <= params.MaxRealisticSpeedKmh {
			banded = append(banded, seg.SpeedKmh)
		}
	}

	totalTime := points[len(points)-1].Time.Sub(points[0].Time).Seconds()
	if totalTime < 0 {
		totalTime = 0
	}
	avgSpeed := 0.0
	if totalTime > 0 {
		avgSpeed = total / (totalTime / 3600)
	}

	statsMustFloat := func(fn func() (float64, error)) float64 {
		out, err := fn()
		if err != nil {
			return 0
		}
		return out
	}
	bandedData := stats.Float64Data(banded)

	return Metrics{
		TotalDistanceKm:    common.DecimalToFixed(total, 3),
		SegmentDistancesKm: distances,
		TotalTimeSec:       totalTime,
		AverageSpeedKmh:    common.DecimalToFixed(avgSpeed, 2),
		MaxSpeedKmh:        common.DecimalToFixed(statsMustFloat(bandedData.Max), 2),
		MinSpeedKmh:        common.DecimalToFixed(statsMustFloat(bandedData.Min), 2),
	}
}

// DirectDistanceKm is the straight-line distance from the first to the last
// fix, used as the efficiency baseline.
func DirectDistanceKm(points []track.Position) float64 {
	if len(points) < 2 {
		return 0
	}
	first, last := points[0], points[len(points)-1]
	return common.DecimalToFixed(
		sphere.Distance(first.Lat, first.Lon, last.Lat, last.Lon), 3)
}
