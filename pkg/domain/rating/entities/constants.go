package entities

// Constants is the rating engine's full calibration record. It is injected
// into the Seeder, Decay System and Rating Engine rather than read from
// package-level globals, so a run can be reproduced exactly from a recorded
// Constants value.
//
// Default values are calibrated to reproduce the reference rating model to
// within 0.1 per output value.
type Constants struct {
	Multiplier float64

	DefaultVolatility float64 // σ ceiling, also the seed σ
	Beta              float64 // Plackett-Luce model constant
	Kappa             float64 // Plackett-Luce model constant

	WeightA                float64
	WeightB                float64
	GameCorrectionConstant float64
	AbsoluteRatingFloor    float64

	DecayDays             int
	DecayRate             float64
	VolatilityGrowthRate  float64
	DecayMinimum          float64

	OsuInitialRatingFloor   float64
	OsuInitialRatingCeiling float64
	FallbackRating          float64
}

// DefaultConstants returns the calibration used in production. Values are
// grounded directly on the reference implementation's constant table:
// Multiplier=45, DefaultVolatility=300, Beta=150, Kappa=0.0001,
// DecayMinimum=825, DecayDays=115, DecayRate=0.06*Multiplier,
// VolatilityGrowthRate=0.08*Multiplier^2. WeightA/WeightB, the game
// correction exponent and the rating floors are not present verbatim in the
// retrieval pack; they are resolved in DESIGN.md and set here accordingly.
func DefaultConstants() Constants {
	multiplier := 45.0

	return Constants{
		Multiplier:        multiplier,
		DefaultVolatility: 300.0,
		Beta:              150.0,
		Kappa:             0.0001,

		WeightA:                0.9,
		WeightB:                0.1,
		GameCorrectionConstant: 0.5,
		AbsoluteRatingFloor:    100.0,

		DecayDays:            115,
		DecayRate:            0.06 * multiplier,
		VolatilityGrowthRate: 0.08 * multiplier * multiplier,
		DecayMinimum:         825.0,

		OsuInitialRatingFloor:   100.0,
		OsuInitialRatingCeiling: 1500.0,
		FallbackRating:          15.0 * multiplier,
	}
}
