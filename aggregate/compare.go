package aggregate

import (
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// Period-over-period trend labels.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// trendBandPct: a dimension counts toward the trend only when it moved more
// than this many percent in either direction.
const trendBandPct = 5.0

// Delta is one compared dimension: absolute change and percentage change
// against the previous period.
type Delta struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Comparison is the period-over-period view across six dimensions.
type Comparison struct {
	Distance   Delta `json:"distance"`
	Time       Delta `json:"time"`
	Fuel       Delta `json:"fuel"`
	Cost       Delta `json:"cost"`
	Efficiency Delta `json:"efficiency"`
	Speed      Delta `json:"speed"`

	Trend string `json:"trend"`
}

// Compare aggregates each raw period to single totals and classifies the
// trend: improving when more dimensions rose past the band than fell past
// it, declining for the reverse, stable otherwise. Identical periods are
// always stable.
func Compare(current, previous []track.Record, cfg *params.FuelConfig) Comparison {
	cur, prev := sessionTotals(current, cfg), sessionTotals(previous, cfg)
	curEff := guardDiv(cur.DistanceKm, float64(distinctShipments(current)))
	prevEff := guardDiv(prev.DistanceKm, float64(distinctShipments(previous)))

	c := Comparison{
		Distance:   delta(cur.DistanceKm, prev.DistanceKm),
		Time:       delta(cur.TimeSec, prev.TimeSec),
		Fuel:       delta(cur.FuelLiters, prev.FuelLiters),
		Cost:       delta(cur.FuelCost, prev.FuelCost),
		Efficiency: delta(curEff, prevEff),
		Speed:      delta(cur.AverageSpeedKmh(), prev.AverageSpeedKmh()),
	}
	up, down := 0, 0
	for _, d := range []Delta{c.Distance, c.Time, c.Fuel, c.Cost, c.Efficiency, c.Speed} {
		if d.Percentage > trendBandPct {
			up++
		} else if d.Percentage < -trendBandPct {
			down++
		}
	}
	switch {
	case up > down:
		c.Trend = TrendImproving
	case down > up:
		c.Trend = TrendDeclining
	default:
		c.Trend = TrendStable
	}
	return c
}

func delta(cur, prev float64) Delta {
	d := Delta{Value: common.DecimalToFixed(cur-prev, 3)}
	switch {
	case prev == 0 && cur == 0:
		// nothing to compare
	case prev == 0:
		d.Percentage = 100
	default:
		d.Percentage = common.DecimalToFixed((cur-prev)/prev*100, 2)
	}
	return d
}
