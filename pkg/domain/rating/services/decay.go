package services

import (
	"math"
	"time"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// DecaySystem produces weekly Decay adjustments driving an inactive rating
// toward a player-specific floor while growing volatility.
type DecaySystem struct {
	constants   entities.Constants
	currentTime time.Time
}

// NewDecaySystem returns a DecaySystem evaluating eligibility against
// currentTime.
func NewDecaySystem(constants entities.Constants, currentTime time.Time) *DecaySystem {
	return &DecaySystem{constants: constants, currentTime: currentTime}
}

// Floor computes the player-specific decay floor: the larger of the global
// DecayMinimum and the midpoint between DecayMinimum and the player's
// all-time peak rating.
func (d *DecaySystem) Floor(rating entities.PlayerRating) float64 {
	return math.Max(d.constants.DecayMinimum, 0.5*(d.constants.DecayMinimum+rating.PeakRatingAfter()))
}

func (d *DecaySystem) isActive(last entities.RatingAdjustment) bool {
	elapsed := d.currentTime.Sub(last.Timestamp)
	return elapsed < time.Duration(d.constants.DecayDays)*24*time.Hour
}

// eligible checks the decay eligibility gate, returning the non-fatal skip
// reason when the player should not be evaluated.
func (d *DecaySystem) eligible(rating entities.PlayerRating) (entities.RatingAdjustment, entities.SkipReason, bool) {
	if len(rating.Adjustments) == 0 {
		return entities.RatingAdjustment{}, entities.SkipDecayNoAdjustments, false
	}

	last := rating.LastAdjustment()

	if last.Kind == entities.Initial {
		return last, entities.SkipDecayInitialRating, false
	}

	if d.isActive(last) {
		return last, entities.SkipDecayPlayerActive, false
	}

	if rating.Rating <= d.Floor(rating) {
		return last, entities.SkipDecayBelowDecayFloor, false
	}

	return last, "", true
}

// Evaluate applies every due weekly decay step to rating. Steps begin at
// last_adjustment.timestamp + DECAY_DAYS and recur
// every 7 days, stopping once a step would no longer change the rating or
// its timestamp would exceed currentTime. It never returns a fatal error;
// ineligibility is reported via skip, not err.
func (d *DecaySystem) Evaluate(rating entities.PlayerRating) (updated entities.PlayerRating, applied bool, skip entities.SkipReason) {
	last, reason, ok := d.eligible(rating)
	if !ok {
		return rating, false, reason
	}

	floor := d.Floor(rating)
	curRating := rating.Rating
	curVolatility := rating.Volatility
	step := last.Timestamp.Add(time.Duration(d.constants.DecayDays) * 24 * time.Hour)

	var newAdjustments []entities.RatingAdjustment
	for !step.After(d.currentTime) {
		nextRating := math.Max(curRating-d.constants.DecayRate, floor)
		if nextRating == curRating {
			break
		}
		nextVolatility := math.Min(math.Sqrt(curVolatility*curVolatility+d.constants.VolatilityGrowthRate), d.constants.DefaultVolatility)

		newAdjustments = append(newAdjustments, entities.RatingAdjustment{
			Kind:             entities.Decay,
			RatingBefore:     curRating,
			RatingAfter:      nextRating,
			VolatilityBefore: curVolatility,
			VolatilityAfter:  nextVolatility,
			Timestamp:        step,
		})

		curRating = nextRating
		curVolatility = nextVolatility
		step = step.Add(7 * 24 * time.Hour)
	}

	if len(newAdjustments) == 0 {
		return rating, false, ""
	}

	rating.Adjustments = append(rating.Adjustments, newAdjustments...)
	rating.Rating = curRating
	rating.Volatility = curVolatility

	return rating, true, ""
}
