package route

import (
	"time"

	"github.com/printo/riderpro/types/track"
)

// GroupByTimeInterval partitions a time-ordered fix sequence into contiguous
// windows. A window's span is measured from its first fix; the first fix that
// would stretch the window past the interval starts a new one.
func GroupByTimeInterval(points []track.Position, interval time.Duration) [][]track.Position {
	if interval <= 0 {
		interval = time.Hour
	}
	out := [][]track.Position{}
	if len(points) == 0 {
		return out
	}

	window := []track.Position{points[0]}
	windowStart := points[0].Time
	for _, p := range points[1:] {
		if p.Time.Sub(windowStart) > interval {
			out = append(out, window)
			window = []track.Position{p}
			windowStart = p.Time
			continue
		}
		window = append(window, p)
	}
	return append(out, window)
}
