package aggregate

import (
	"fmt"
	"slices"
)

// TopDimension ranks employees for the top-performers view.
type TopDimension string

const (
	TopByDistance   TopDimension = "distance"
	TopByEfficiency TopDimension = "efficiency"
	TopByFuel       TopDimension = "fuel"
)

func ParseTopDimension(s string) (TopDimension, error) {
	switch TopDimension(s) {
	case TopByDistance, TopByEfficiency, TopByFuel:
		return TopDimension(s), nil
	}
	return "", fmt.Errorf("unknown top-performers dimension: %q", s)
}

// TopPerformers ranks employee rollups by one dimension, descending, and
// returns at most limit entries. The input slice is not mutated.
func TopPerformers(perfs []EmployeePerformance, dim TopDimension, limit int) []EmployeePerformance {
	ranked := slices.Clone(perfs)
	key := func(p EmployeePerformance) float64 {
		switch dim {
		case TopByEfficiency:
			return p.EfficiencyKmPerShipment
		case TopByFuel:
			return p.FuelEfficiencyKmPerL
		default:
			return p.TotalDistanceKm
		}
	}
	slices.SortStableFunc(ranked, func(a, b EmployeePerformance) int {
		ka, kb := key(a), key(b)
		if ka > kb {
			return -1
		}
		if ka < kb {
			return 1
		}
		return 0
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
