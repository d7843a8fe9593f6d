package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

func testOwner() common.ResourceOwner {
	return common.ResourceOwner{}
}

func newTestRating(mu, sigma float64, lastAdjustment time.Time, kind entities.AdjustmentKind) entities.PlayerRating {
	rating := entities.NewPlayerRating(testOwner(), 1, entities.Osu, "US", mu, sigma, lastAdjustment.Add(-365*24*time.Hour))
	rating.Adjustments = append(rating.Adjustments, entities.RatingAdjustment{
		Kind:             kind,
		RatingBefore:     mu,
		RatingAfter:      mu,
		VolatilityBefore: sigma,
		VolatilityAfter:  sigma,
		Timestamp:        lastAdjustment,
	})
	rating.Rating = mu
	rating.Volatility = sigma
	return rating
}

func TestDecaySystem_ActivePlayerIsIneligible(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rating := newTestRating(1200, 100, now.Add(-10*24*time.Hour), entities.MatchAdjustment)

	decay := NewDecaySystem(testConstants(), now)
	updated, applied, skip := decay.Evaluate(rating)

	assert.False(t, applied)
	assert.Equal(t, entities.SkipDecayPlayerActive, skip)
	assert.Equal(t, rating.Rating, updated.Rating)
}

func TestDecaySystem_InitialRatingIsIneligible(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rating := newTestRating(1200, 100, now.Add(-200*24*time.Hour), entities.Initial)

	decay := NewDecaySystem(testConstants(), now)
	_, applied, skip := decay.Evaluate(rating)

	assert.False(t, applied)
	assert.Equal(t, entities.SkipDecayInitialRating, skip)
}

func TestDecaySystem_BelowFloorIsIneligible(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	constants := testConstants()
	rating := newTestRating(constants.DecayMinimum, 100, now.Add(-200*24*time.Hour), entities.MatchAdjustment)

	decay := NewDecaySystem(constants, now)
	_, applied, skip := decay.Evaluate(rating)

	assert.False(t, applied)
	assert.Equal(t, entities.SkipDecayBelowDecayFloor, skip)
}

func TestDecaySystem_AppliesWeeklyStepsTowardFloor(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	constants := testConstants()
	lastAdjustment := now.Add(-(time.Duration(constants.DecayDays) + 21) * 24 * time.Hour)
	rating := newTestRating(1500, 100, lastAdjustment, entities.MatchAdjustment)

	decay := NewDecaySystem(constants, now)
	updated, applied, skip := decay.Evaluate(rating)

	require.True(t, applied)
	assert.Empty(t, skip)
	assert.Less(t, updated.Rating, 1500.0, "rating should have decayed downward")
	assert.GreaterOrEqual(t, updated.Rating, decay.Floor(rating), "rating should never decay below the floor")

	decaySteps := 0
	for _, adj := range updated.Adjustments {
		if adj.Kind == entities.Decay {
			decaySteps++
		}
	}
	assert.GreaterOrEqual(t, decaySteps, 3, "at least three weekly boundaries should have elapsed by now")
}

func TestDecaySystem_StopsAtFloorWithoutOvershooting(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	constants := testConstants()
	lastAdjustment := now.Add(-5000 * 24 * time.Hour)
	rating := newTestRating(constants.DecayMinimum+10, 100, lastAdjustment, entities.MatchAdjustment)

	decay := NewDecaySystem(constants, now)
	updated, applied, _ := decay.Evaluate(rating)

	require.True(t, applied)
	assert.InDelta(t, decay.Floor(rating), updated.Rating, 1e-9)
}

func TestDecaySystem_VolatilityGrowsCappedAtDefault(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	constants := testConstants()
	lastAdjustment := now.Add(-5000 * 24 * time.Hour)
	rating := newTestRating(2000, 10, lastAdjustment, entities.MatchAdjustment)

	decay := NewDecaySystem(constants, now)
	updated, applied, _ := decay.Evaluate(rating)

	require.True(t, applied)
	assert.LessOrEqual(t, updated.Volatility, constants.DefaultVolatility)
	assert.Greater(t, updated.Volatility, 10.0, "volatility should have grown from its initial low value")
}

func TestDecaySystem_FloorUsesPeakRatingMidpoint(t *testing.T) {
	constants := testConstants()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rating := newTestRating(1600, 100, now, entities.MatchAdjustment)
	rating.Adjustments[0].RatingAfter = 2000 // peak established by the initial seed

	decay := NewDecaySystem(constants, now)
	expected := 0.5 * (constants.DecayMinimum + 2000.0)
	assert.InDelta(t, expected, decay.Floor(rating), 1e-9)
}
