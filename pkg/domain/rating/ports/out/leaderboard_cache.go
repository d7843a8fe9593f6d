package out

import (
	"context"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// LeaderboardCache is a read-optimized projection of the Tracker's sorted
// output. It is never the source of truth: the Tracker and Repository are.
// Implementations live under pkg/infra/cache.
type LeaderboardCache interface {
	// ReplaceLeaderboard overwrites the cached ranking for a ruleset with
	// the given, already-sorted ratings.
	ReplaceLeaderboard(ctx context.Context, ruleset entities.Ruleset, ratings []entities.PlayerRating) error

	// ReplaceCountryLeaderboard overwrites the cached ranking for a
	// (country, ruleset) pair.
	ReplaceCountryLeaderboard(ctx context.Context, country string, ruleset entities.Ruleset, ratings []entities.PlayerRating) error

	// Top returns the top N cached entries for a ruleset as
	// (player_id, rating) pairs, highest rating first.
	Top(ctx context.Context, ruleset entities.Ruleset, n int) ([]LeaderboardEntry, error)

	// Rank returns the 1-based cached rank of a player within a ruleset.
	Rank(ctx context.Context, ruleset entities.Ruleset, playerID int) (int, error)
}

// LeaderboardEntry is one cached leaderboard row.
type LeaderboardEntry struct {
	PlayerID int
	Rating   float64
}
