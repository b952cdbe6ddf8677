package aggregate

import (
	"math"

	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// RoutePerformance is the rollup of one route. Tracking records carry no
// route identifier, so routes are keyed by employee ID as a stand-in until
// clients report a real one.
type RoutePerformance struct {
	RouteID string `json:"routeId"`

	Sessions  int `json:"sessions"`
	Employees int `json:"employees"`

	TotalDistanceKm    float64 `json:"totalDistanceKm"`
	TotalTimeSec       float64 `json:"totalTimeSec"`
	FuelLiters         float64 `json:"fuelLiters"`
	FuelCost           float64 `json:"fuelCost"`
	CompletedShipments int     `json:"completedShipments"`
	AverageSpeedKmh    float64 `json:"averageSpeedKmh"`

	// PopularityScore is 0-100: 10 points per session plus 5 per employee,
	// capped.
	PopularityScore float64 `json:"popularityScore"`
}

// RoutePerformances rolls the batch up per route, ordered by route ID.
func RoutePerformances(records []track.Record, cfg *params.FuelConfig) []RoutePerformance {
	groups := groupBy(records, func(r track.Record) string { return r.EmployeeID })
	out := make([]RoutePerformance, 0, len(groups))
	for _, id := range sortedKeys(groups) {
		group := groups[id]
		t := sessionTotals(group, cfg)
		employees := distinctValues(group, func(r track.Record) string {
			return r.EmployeeID
		})
		out = append(out, RoutePerformance{
			RouteID:            id,
			Sessions:           t.Sessions,
			Employees:          employees,
			TotalDistanceKm:    t.DistanceKm,
			TotalTimeSec:       t.TimeSec,
			FuelLiters:         t.FuelLiters,
			FuelCost:           t.FuelCost,
			CompletedShipments: distinctShipments(group),
			AverageSpeedKmh:    t.AverageSpeedKmh(),
			PopularityScore: common.DecimalToFixed(
				math.Min(100, 10*float64(t.Sessions)+5*float64(employees)), 2),
		})
	}
	return out
}
