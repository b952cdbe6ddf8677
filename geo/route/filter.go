package route

import (
	"github.com/printo/riderpro/geo/sphere"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// FilterNoise drops implausible fixes from an ordered sequence.
//
// The first fix is always retained, so a non-empty input never filters to
// empty. Each subsequent fix is measured against the last RETAINED fix:
// rejected when its reported accuracy is worse than the threshold, when the
// implied speed exceeds the band, or when it jumps farther than a courier
// plausibly moves between fixes. Rejected fixes are dropped, not replaced;
// distance computed from the survivors can under-count a legitimately fast
// courier, an accepted trade-off.
func FilterNoise(points []track.Position, cfg *params.NoiseConfig) []track.Position {
	if cfg == nil {
		cfg = params.DefaultNoiseConfig
	}
	if len(points) == 0 {
		return []track.Position{}
	}

	out := make([]track.Position, 0, len(points))
	out = append(out, points[0])
	last := points[0]

	for _, p := range points[1:] {
		if p.Accuracy > cfg.AccuracyThreshold {
			continue
		}
		dist := sphere.Distance(last.Lat, last.Lon, p.Lat, p.Lon)
		if dist > cfg.MaxDistanceJump {
			continue
		}
		dur := p.Time.Sub(last.Time).Seconds()
		if dur < 1 {
			dur = 1
		}
		if dist/(dur/3600) > cfg.MaxSpeed {
			continue
		}
		out = append(out, p)
		last = p
	}
	return out
}
