package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

func TestFinalizer_DecaysInactiveAndLeavesActiveUntouched(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	constants := testConstants()

	tracker := NewTracker()
	inactive := newTestRating(1800, 100, now.Add(-5000*24*time.Hour), entities.MatchAdjustment)
	active := entities.NewPlayerRating(testOwner(), 2, entities.Osu, "JP", 1200, 100, now.Add(-time.Hour))
	tracker.InsertOrUpdate([]entities.PlayerRating{inactive, active})

	finalizer := NewFinalizer(constants, tracker)
	results := finalizer.Finalize(now)
	require.Len(t, results, 2)

	updatedInactive, _ := tracker.Get(1, entities.Osu)
	updatedActive, _ := tracker.Get(2, entities.Osu)

	assert.Less(t, updatedInactive.Rating, 1800.0, "long-inactive player should have decayed")
	assert.Equal(t, 1200.0, updatedActive.Rating, "recently active player's rating should be untouched")
}

func TestFinalizer_SortsAndRanksAfterDecay(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	constants := testConstants()

	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{
		entities.NewPlayerRating(testOwner(), 1, entities.Osu, "US", 2000, 100, now.Add(-time.Hour)),
		entities.NewPlayerRating(testOwner(), 2, entities.Osu, "JP", 1000, 100, now.Add(-time.Hour)),
	})

	finalizer := NewFinalizer(constants, tracker)
	finalizer.Finalize(now)

	top, _ := tracker.Get(1, entities.Osu)
	bottom, _ := tracker.Get(2, entities.Osu)

	assert.Equal(t, 1, top.GlobalRank)
	assert.Equal(t, 2, bottom.GlobalRank)
}
