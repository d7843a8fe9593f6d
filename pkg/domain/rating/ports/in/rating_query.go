package in

import (
	"fmt"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// GetLeaderboardQuery requests a page of a ruleset's leaderboard, optionally
// narrowed to one country.
type GetLeaderboardQuery struct {
	Ruleset entities.Ruleset
	Country string // optional, 2-letter code; empty means global
	Skip    uint
	Limit   uint
}

func (q GetLeaderboardQuery) Validate() error {
	if q.Limit == 0 {
		return fmt.Errorf("limit must be a positive integer")
	}
	if q.Country != "" && len(q.Country) != 2 {
		return fmt.Errorf("country must be a 2-letter code, got %q", q.Country)
	}
	return nil
}

// GetPlayerRatingQuery requests a single player's rating under one ruleset.
type GetPlayerRatingQuery struct {
	PlayerID int
	Ruleset  entities.Ruleset
}

func (q GetPlayerRatingQuery) Validate() error {
	if q.PlayerID <= 0 {
		return fmt.Errorf("player_id must be positive, got %d", q.PlayerID)
	}
	return nil
}
