package params

// NoiseConfig controls GPS error rejection for raw fix sequences.
type NoiseConfig struct {
	// AccuracyThreshold is the worst reported accuracy (meters) a fix may
	// carry and still be kept. Fixes reporting no accuracy (0) pass.
	AccuracyThreshold float64

	// MaxSpeed is the highest implied speed (km/h) between a candidate fix
	// and the last retained fix. Faster implies a glitch, not a courier.
	MaxSpeed float64

	// MaxDistanceJump is the farthest (km) a fix may land from the last
	// retained fix before it is considered a teleportation.
	MaxDistanceJump float64
}

var DefaultNoiseConfig = &NoiseConfig{
	AccuracyThreshold: 100.0,
	MaxSpeed:          120.0,
	MaxDistanceJump:   5.0,
}
