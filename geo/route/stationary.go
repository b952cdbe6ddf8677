package route

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/geo/sphere"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// StationaryPeriod is a dwell: a time window during which the courier
// stayed within a small radius of an anchor fix.
type StationaryPeriod struct {
	StartIndex      int       `json:"startIndex"`
	EndIndex        int       `json:"endIndex"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes float64   `json:"durationMinutes"`

	// Center is the mean lat/lon of the clustered fixes.
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
}

// StationaryPeriods detects dwells with a sliding anchor, O(n) with no
// backtracking. The anchor marks the start of a candidate cluster; fixes
// within DwellDistance of the anchor fold into it; the first fix outside
// closes the cluster and becomes the new anchor. A fix that starts a new,
// larger excursion is never retroactively merged into an earlier cluster.
// A trailing cluster still open at the end of the sequence is emitted if it
// qualifies.
func StationaryPeriods(points []track.Position, cfg *params.StationaryConfig) []StationaryPeriod {
	if cfg == nil {
		cfg = params.DefaultStationaryConfig
	}
	out := []StationaryPeriod{}
	if len(points) < 2 {
		return out
	}

	anchor := 0
	for i := 1; i < len(points); i++ {
		a, p := points[anchor], points[i]
		if sphere.DistanceMeters(a.Lat, a.Lon, p.Lat, p.Lon) <= cfg.DwellDistance {
			continue
		}
		if period, ok := closeCluster(points, anchor, i-1, cfg); ok {
			out = append(out, period)
		}
		anchor = i
	}
	if period, ok := closeCluster(points, anchor, len(points)-1, cfg); ok {
		out = append(out, period)
	}
	return out
}

func closeCluster(points []track.Position, start, end int, cfg *params.StationaryConfig) (StationaryPeriod, bool) {
	if end <= start {
		return StationaryPeriod{}, false
	}
	span := points[end].Time.Sub(points[start].Time)
	if span < cfg.DwellInterval {
		return StationaryPeriod{}, false
	}

	mp := orb.MultiPoint{}
	for _, p := range points[start : end+1] {
		mp = append(mp, p.Point())
	}
	centroid, _ := planar.CentroidArea(mp)

	return StationaryPeriod{
		StartIndex:      start,
		EndIndex:        end,
		Start:           points[start].Time,
		End:             points[end].Time,
		DurationMinutes: common.DecimalToFixed(span.Minutes(), 2),
		CenterLat:       centroid.Lat(),
		CenterLon:       centroid.Lon(),
	}, true
}
