package route

import (
	"github.com/printo/riderpro/common"
	"github.com/shopspring/decimal"
)

// FuelConsumption is the fuel derivative of a distance.
type FuelConsumption struct {
	Liters float64 `json:"liters"`
	// Cost is present only when a price was supplied.
	Cost      float64 `json:"cost,omitempty"`
	CostKnown bool    `json:"costKnown"`
}

// Fuel derives liters burned from distance and efficiency, and cost when a
// per-liter price is supplied. Cost is money, so it goes through decimal
// rather than accumulating float error.
func Fuel(distanceKm, efficiencyKmPerL float64, pricePerL *float64) FuelConsumption {
	if efficiencyKmPerL <= 0 || distanceKm <= 0 {
		return FuelConsumption{}
	}
	liters := distanceKm / efficiencyKmPerL
	fc := FuelConsumption{Liters: common.DecimalToFixed(liters, 3)}
	if pricePerL != nil {
		cost := decimal.NewFromFloat(liters).
			Mul(decimal.NewFromFloat(*pricePerL)).
			Round(3)
		fc.Cost = cost.InexactFloat64()
		fc.CostKnown = true
	}
	return fc
}

// EfficiencyReport compares an actual route against its straight-line and
// scheduled baselines.
type EfficiencyReport struct {
	DistanceEfficiencyPct float64 `json:"distanceEfficiencyPct"`
	TimeEfficiencyPct     float64 `json:"timeEfficiencyPct"`

	// DetourFactor is actual/direct distance; defaults to 1 when the direct
	// distance is 0, signaling "no detour" rather than dividing by zero.
	DetourFactor float64 `json:"detourFactor"`
}

// Efficiency computes the route efficiency derivatives with guarded
// denominators throughout.
func Efficiency(actualDistanceKm, directDistanceKm, actualTimeSec, estimatedTimeSec float64) EfficiencyReport {
	rep := EfficiencyReport{DetourFactor: 1}
	if directDistanceKm > 0 && actualDistanceKm > 0 {
		rep.DistanceEfficiencyPct = common.DecimalToFixed(directDistanceKm/actualDistanceKm*100, 2)
		rep.DetourFactor = common.DecimalToFixed(actualDistanceKm/directDistanceKm, 3)
	}
	if estimatedTimeSec > 0 && actualTimeSec > 0 {
		rep.TimeEfficiencyPct = common.DecimalToFixed(estimatedTimeSec/actualTimeSec*100, 2)
	}
	return rep
}
