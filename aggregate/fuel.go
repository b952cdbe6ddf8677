package aggregate

import (
	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// FuelBreakdown is fuel usage attributed to one grouping key (vehicle type
// or employee).
type FuelBreakdown struct {
	Key              string  `json:"key"`
	DistanceKm       float64 `json:"distanceKm"`
	Liters           float64 `json:"liters"`
	Cost             float64 `json:"cost"`
	EfficiencyKmPerL float64 `json:"efficiencyKmPerL"`
}

// FuelTrendPoint is one week of the consumption trend series.
type FuelTrendPoint struct {
	Period           string  `json:"period"`
	Liters           float64 `json:"consumption"`
	Cost             float64 `json:"cost"`
	EfficiencyKmPerL float64 `json:"efficiency"`
}

// FuelAnalytics is the fleet-wide fuel view over the filtered batch.
type FuelAnalytics struct {
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	TotalLiters     float64 `json:"totalLiters"`
	TotalCost       float64 `json:"totalCost"`

	AverageEfficiencyKmPerL float64 `json:"averageEfficiencyKmPerL"`
	CostPerKm               float64 `json:"costPerKm"`
	LitersPerKm             float64 `json:"litersPerKm"`

	ByVehicleType []FuelBreakdown  `json:"byVehicleType"`
	ByEmployee    []FuelBreakdown  `json:"byEmployee"`
	WeeklyTrend   []FuelTrendPoint `json:"weeklyTrend"`
}

// FuelAnalysis computes the fleet fuel view: global totals, derived
// averages, per-vehicle and per-employee breakdowns, and a weekly trend.
func FuelAnalysis(records []track.Record, cfg *params.FuelConfig) FuelAnalytics {
	total := sessionTotals(records, cfg)
	fa := FuelAnalytics{
		TotalDistanceKm:         total.DistanceKm,
		TotalLiters:             total.FuelLiters,
		TotalCost:               total.FuelCost,
		AverageEfficiencyKmPerL: total.FuelEfficiencyKmPerL(),
		CostPerKm:               common.DecimalToFixed(guardDiv(total.FuelCost, total.DistanceKm), 3),
		LitersPerKm:             common.DecimalToFixed(guardDiv(total.FuelLiters, total.DistanceKm), 3),
	}
	fa.ByVehicleType = fuelBreakdown(records, cfg, track.Record.VehicleTypeOrDefault)
	fa.ByEmployee = fuelBreakdown(records, cfg, func(r track.Record) string {
		return r.EmployeeID
	})
	for _, tm := range TimeBucketMetrics(records, BucketWeek, cfg) {
		fa.WeeklyTrend = append(fa.WeeklyTrend, FuelTrendPoint{
			Period: tm.Period,
			Liters: tm.FuelLiters,
			Cost:   tm.FuelCost,
			EfficiencyKmPerL: common.DecimalToFixed(
				guardDiv(tm.TotalDistanceKm, tm.FuelLiters), 2),
		})
	}
	return fa
}

func fuelBreakdown(records []track.Record, cfg *params.FuelConfig, key func(track.Record) string) []FuelBreakdown {
	groups := groupBy(records, key)
	out := make([]FuelBreakdown, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		t := sessionTotals(groups[k], cfg)
		out = append(out, FuelBreakdown{
			Key:              k,
			DistanceKm:       t.DistanceKm,
			Liters:           t.FuelLiters,
			Cost:             t.FuelCost,
			EfficiencyKmPerL: t.FuelEfficiencyKmPerL(),
		})
	}
	return out
}
