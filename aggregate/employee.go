package aggregate

import (
	"math"

	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// Fuel efficiency rating labels.
const (
	FuelRatingExcellent = "excellent"
	FuelRatingGood      = "good"
	FuelRatingAverage   = "average"
	FuelRatingPoor      = "poor"
)

// Performance score baselines: an employee hitting all three is "perfect".
const (
	baselineKmPerShipment = 10.0
	baselineSpeedKmh      = 30.0
	baselineFuelKmPerL    = 20.0
)

// EmployeePerformance is one employee's rollup over the filtered batch.
type EmployeePerformance struct {
	EmployeeID string `json:"employeeId"`

	WorkingDays int `json:"workingDays"`
	Sessions    int `json:"sessions"`

	TotalDistanceKm    float64 `json:"totalDistanceKm"`
	TotalTimeSec       float64 `json:"totalTimeSec"`
	FuelLiters         float64 `json:"fuelLiters"`
	FuelCost           float64 `json:"fuelCost"`
	CompletedShipments int     `json:"completedShipments"`

	AverageSpeedKmh float64 `json:"averageSpeedKmh"`

	// EfficiencyKmPerShipment is km travelled per completed shipment;
	// 0 when no shipments completed.
	EfficiencyKmPerShipment float64 `json:"efficiencyKmPerShipment"`

	AverageDistancePerDayKm float64 `json:"averageDistancePerDayKm"`
	AverageShipmentsPerDay  float64 `json:"averageShipmentsPerDay"`

	FuelEfficiencyKmPerL float64 `json:"fuelEfficiencyKmPerL"`
	FuelRating           string  `json:"fuelRating"`

	// PerformanceScore is 0-100, weighted 0.4 shipment efficiency,
	// 0.3 speed, 0.3 fuel efficiency against the baselines above.
	PerformanceScore float64 `json:"performanceScore"`
}

// EmployeePerformances rolls the batch up per employee, ordered by
// employee ID for deterministic output.
func EmployeePerformances(records []track.Record, cfg *params.FuelConfig) []EmployeePerformance {
	groups := groupBy(records, func(r track.Record) string { return r.EmployeeID })
	out := make([]EmployeePerformance, 0, len(groups))
	for _, id := range sortedKeys(groups) {
		group := groups[id]
		t := sessionTotals(group, cfg)
		shipments := distinctShipments(group)
		days := distinctValues(group, track.Record.DateKey)

		p := EmployeePerformance{
			EmployeeID:         id,
			WorkingDays:        days,
			Sessions:           t.Sessions,
			TotalDistanceKm:    t.DistanceKm,
			TotalTimeSec:       t.TimeSec,
			FuelLiters:         t.FuelLiters,
			FuelCost:           t.FuelCost,
			CompletedShipments: shipments,
			AverageSpeedKmh:    t.AverageSpeedKmh(),
		}
		p.EfficiencyKmPerShipment = common.DecimalToFixed(
			guardDiv(t.DistanceKm, float64(shipments)), 2)
		p.AverageDistancePerDayKm = common.DecimalToFixed(
			guardDiv(t.DistanceKm, float64(days)), 2)
		p.AverageShipmentsPerDay = common.DecimalToFixed(
			guardDiv(float64(shipments), float64(days)), 2)
		p.FuelEfficiencyKmPerL = t.FuelEfficiencyKmPerL()
		p.FuelRating = fuelRating(p.FuelEfficiencyKmPerL)
		p.PerformanceScore = performanceScore(
			p.EfficiencyKmPerShipment, p.AverageSpeedKmh, p.FuelEfficiencyKmPerL)
		out = append(out, p)
	}
	return out
}

func fuelRating(kmPerL float64) string {
	switch {
	case kmPerL >= params.FuelRatingExcellentKmPerL:
		return FuelRatingExcellent
	case kmPerL >= params.FuelRatingGoodKmPerL:
		return FuelRatingGood
	case kmPerL >= params.FuelRatingAverageKmPerL:
		return FuelRatingAverage
	default:
		return FuelRatingPoor
	}
}

func performanceScore(efficiencyKmPerShipment, avgSpeedKmh, fuelKmPerL float64) float64 {
	score := 0.4*math.Min(100, efficiencyKmPerShipment/baselineKmPerShipment*100) +
		0.3*math.Min(100, avgSpeedKmh/baselineSpeedKmh*100) +
		0.3*math.Min(100, fuelKmPerL/baselineFuelKmPerL*100)
	return common.DecimalToFixed(score, 2)
}
