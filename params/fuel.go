package params

// FuelConfig carries defaults substituted when a record omits fuel settings.
type FuelConfig struct {
	EfficiencyKmPerL float64
	PricePerL        float64
}

var DefaultFuelConfig = &FuelConfig{
	EfficiencyKmPerL: 15.0,
	PricePerL:        1.5,
}

// Fuel efficiency rating buckets, km/L.
const (
	FuelRatingExcellentKmPerL = 18.0
	FuelRatingGoodKmPerL      = 15.0
	FuelRatingAverageKmPerL   = 12.0
)
