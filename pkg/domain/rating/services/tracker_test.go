package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

func seededRating(playerID int, ruleset entities.Ruleset, country string, mu float64) entities.PlayerRating {
	return entities.NewPlayerRating(testOwner(), playerID, ruleset, country, mu, 100, time.Now())
}

func TestTracker_InsertOrUpdateOverwritesByKey(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{seededRating(1, entities.Osu, "US", 1000)})

	updated := seededRating(1, entities.Osu, "US", 1500)
	tracker.InsertOrUpdate([]entities.PlayerRating{updated})

	got, ok := tracker.Get(1, entities.Osu)
	require.True(t, ok)
	assert.Equal(t, 1500.0, got.Rating)
}

func TestTracker_InsertOrUpdatePreservesCountryWhenNewEntryOmitsIt(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{seededRating(1, entities.Osu, "US", 1000)})

	noCountry := seededRating(1, entities.Osu, "", 1200)
	tracker.InsertOrUpdate([]entities.PlayerRating{noCountry})

	got, ok := tracker.Get(1, entities.Osu)
	require.True(t, ok)
	assert.Equal(t, "US", got.Country, "a blank incoming country should not erase the tracked country")
}

func TestTracker_GetLeaderboardSortsByRatingDescendingWithPlayerIDTiebreak(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{
		seededRating(3, entities.Osu, "US", 1000),
		seededRating(1, entities.Osu, "US", 1500),
		seededRating(2, entities.Osu, "US", 1500),
	})

	board := tracker.GetLeaderboard(entities.Osu)
	require.Len(t, board, 3)

	assert.Equal(t, 1, board[0].PlayerID, "equal ratings break ties by ascending player_id")
	assert.Equal(t, 2, board[1].PlayerID)
	assert.Equal(t, 3, board[2].PlayerID)
}

func TestTracker_SortAssignsDenseGlobalRankAndPercentile(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{
		seededRating(1, entities.Osu, "US", 2000),
		seededRating(2, entities.Osu, "US", 1500),
		seededRating(3, entities.Osu, "US", 1000),
	})
	tracker.Sort()

	top, _ := tracker.Get(1, entities.Osu)
	middle, _ := tracker.Get(2, entities.Osu)
	bottom, _ := tracker.Get(3, entities.Osu)

	assert.Equal(t, 1, top.GlobalRank)
	assert.Equal(t, 2, middle.GlobalRank)
	assert.Equal(t, 3, bottom.GlobalRank)

	assert.InDelta(t, 2.0/3.0, top.Percentile, 1e-9)
	assert.InDelta(t, 1.0/3.0, middle.Percentile, 1e-9)
	assert.InDelta(t, 0.0, bottom.Percentile, 1e-9)
}

func TestTracker_SortAssignsCountryRankIndependentlyOfGlobalRank(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{
		seededRating(1, entities.Osu, "US", 2000),
		seededRating(2, entities.Osu, "JP", 1800),
		seededRating(3, entities.Osu, "JP", 1200),
	})
	tracker.Sort()

	usTop, _ := tracker.Get(1, entities.Osu)
	jpTop, _ := tracker.Get(2, entities.Osu)
	jpSecond, _ := tracker.Get(3, entities.Osu)

	assert.Equal(t, 1, usTop.CountryRank)
	assert.Equal(t, 1, jpTop.CountryRank)
	assert.Equal(t, 2, jpSecond.CountryRank)

	assert.Equal(t, 1, usTop.GlobalRank)
	assert.Equal(t, 2, jpTop.GlobalRank)
}

func TestTracker_SortIsFixedPointWhenStoreUnchanged(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{
		seededRating(1, entities.Osu, "US", 2000),
		seededRating(2, entities.Osu, "JP", 1800),
	})
	tracker.Sort()
	before := tracker.All()

	tracker.Sort()
	after := tracker.All()

	byKey := func(ratings []entities.PlayerRating) map[entities.Key]entities.PlayerRating {
		m := make(map[entities.Key]entities.PlayerRating)
		for _, r := range ratings {
			m[r.Key()] = r
		}
		return m
	}

	beforeMap := byKey(before)
	afterMap := byKey(after)

	for key, b := range beforeMap {
		a := afterMap[key]
		assert.Equal(t, b.GlobalRank, a.GlobalRank)
		assert.Equal(t, b.CountryRank, a.CountryRank)
		assert.Equal(t, b.Percentile, a.Percentile)
	}
}

func TestTracker_UnindexRemovesStaleCountryOnReassignment(t *testing.T) {
	tracker := NewTracker()
	tracker.InsertOrUpdate([]entities.PlayerRating{seededRating(1, entities.Osu, "US", 1000)})
	tracker.InsertOrUpdate([]entities.PlayerRating{seededRating(1, entities.Osu, "JP", 1000)})
	tracker.Sort()

	usBoard, _ := tracker.Get(1, entities.Osu)
	assert.Equal(t, "JP", usBoard.Country)
	assert.NotContains(t, tracker.countryIndex, "US", "the stale US index entry should be removed")
}
