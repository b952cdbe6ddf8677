// Package aggregate rolls raw tracking records into the analytics views the
// dashboards consume: employee performance, route performance, time-bucketed
// metrics, fuel analytics, and period-over-period comparison. Every operation
// is a stateless batch transformation; results are recomputed per call, never
// cached.
//
// Distance and time totals are always computed per session and then summed.
// Summing consecutive-record gaps across session boundaries would inflate
// distance with cross-session jumps.
package aggregate

import (
	"slices"

	"github.com/printo/riderpro/common"
	"github.com/printo/riderpro/geo/route"
	"github.com/printo/riderpro/params"
	"github.com/printo/riderpro/types/track"
)

// Filters narrows a record batch before aggregation. Every set field is an
// independent conjunctive predicate; zero-valued fields match everything.
// Date bounds compare lexically against the record's YYYY-MM-DD key, which
// is safe because the key layout is zero-padded ISO.
type Filters struct {
	EmployeeIDs  []string `json:"employeeIds,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	VehicleTypes []string `json:"vehicleTypes,omitempty"`
}

// Apply returns the records matching all set predicates, preserving order.
func (f Filters) Apply(records []track.Record) []track.Record {
	out := make([]track.Record, 0, len(records))
	for _, r := range records {
		if len(f.EmployeeIDs) > 0 && !slices.Contains(f.EmployeeIDs, r.EmployeeID) {
			continue
		}
		if len(f.VehicleTypes) > 0 && !slices.Contains(f.VehicleTypes, r.VehicleTypeOrDefault()) {
			continue
		}
		date := r.DateKey()
		if f.StartDate != "" && date < f.StartDate {
			continue
		}
		if f.EndDate != "" && date > f.EndDate {
			continue
		}
		out = append(out, r)
	}
	return out
}

// totals is the common rollup of one record group.
type totals struct {
	DistanceKm float64
	TimeSec    float64
	FuelLiters float64
	FuelCost   float64
	Sessions   int
}

// AverageSpeedKmh derives the group's mean speed from its totals.
func (t totals) AverageSpeedKmh() float64 {
	if t.TimeSec <= 0 {
		return 0
	}
	return common.DecimalToFixed(t.DistanceKm/(t.TimeSec/3600), 2)
}

// FuelEfficiencyKmPerL derives realized km/L from the group's totals.
func (t totals) FuelEfficiencyKmPerL() float64 {
	if t.FuelLiters <= 0 {
		return 0
	}
	return common.DecimalToFixed(t.DistanceKm/t.FuelLiters, 2)
}

// sessionTotals computes distance and time per session within the group,
// then sums. Records inside each session are re-sorted chronologically
// before segment math; segment algorithms assume monotonic timestamps.
func sessionTotals(records []track.Record, cfg *params.FuelConfig) totals {
	if cfg == nil {
		cfg = params.DefaultFuelConfig
	}
	t := totals{}
	for _, session := range groupBy(records, func(r track.Record) string {
		return r.SessionID
	}) {
		slices.SortStableFunc(session, track.SlicesSortFunc)
		metrics := route.CalculateMetrics(track.Positions(session))
		t.Sessions++
		t.DistanceKm += metrics.TotalDistanceKm
		t.TimeSec += metrics.TotalTimeSec

		eff, price := fuelSettings(session, cfg)
		fc := route.Fuel(metrics.TotalDistanceKm, eff, &price)
		t.FuelLiters += fc.Liters
		t.FuelCost += fc.Cost
	}
	t.DistanceKm = common.DecimalToFixed(t.DistanceKm, 3)
	t.FuelLiters = common.DecimalToFixed(t.FuelLiters, 3)
	t.FuelCost = common.DecimalToFixed(t.FuelCost, 3)
	return t
}

// fuelSettings picks the session's fuel parameters: the first reported value
// wins, the configured defaults fill the rest.
func fuelSettings(session []track.Record, cfg *params.FuelConfig) (effKmPerL, pricePerL float64) {
	effKmPerL, pricePerL = cfg.EfficiencyKmPerL, cfg.PricePerL
	for _, r := range session {
		if r.FuelEfficiency > 0 {
			effKmPerL = r.FuelEfficiency
			break
		}
	}
	for _, r := range session {
		if r.FuelPrice > 0 {
			pricePerL = r.FuelPrice
			break
		}
	}
	return effKmPerL, pricePerL
}

func groupBy(records []track.Record, key func(track.Record) string) map[string][]track.Record {
	groups := map[string][]track.Record{}
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	return groups
}

// distinctShipments counts distinct shipment IDs among records carrying a
// completed shipment event.
func distinctShipments(records []track.Record) int {
	seen := map[string]struct{}{}
	for _, r := range records {
		if r.IsShipmentEvent() {
			seen[r.ShipmentID] = struct{}{}
		}
	}
	return len(seen)
}

func distinctValues(records []track.Record, key func(track.Record) string) int {
	seen := map[string]struct{}{}
	for _, r := range records {
		seen[key(r)] = struct{}{}
	}
	return len(seen)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// guardDiv returns num/den, or 0 when the denominator is not positive.
func guardDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
