package services

import (
	"fmt"
	"math"
	"time"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// Seeder maps every (player, ruleset) pair appearing in the match corpus to
// a seed (µ, σ), each carrying exactly one Initial adjustment.
type Seeder struct {
	constants entities.Constants
	owner     common.ResourceOwner
}

// NewSeeder returns a Seeder calibrated with constants, stamping every
// seeded PlayerRating with owner for multi-tenant isolation.
func NewSeeder(constants entities.Constants, owner common.ResourceOwner) *Seeder {
	return &Seeder{constants: constants, owner: owner}
}

type activityKey struct {
	ruleset  entities.Ruleset
	playerID int
}

// CreateInitialRatings walks the match corpus once, recording for each
// (ruleset, player_id) pair the earliest match start_time in which it
// participates, then emits one seeded PlayerRating per pair. A seed
// µ that is NaN or non-positive is fatal: seeding aborts entirely.
func (s *Seeder) CreateInitialRatings(players []entities.Player, matches []entities.Match, countryMapping map[int]string) ([]entities.PlayerRating, error) {
	playersByID := make(map[int]entities.Player, len(players))
	for _, p := range players {
		playersByID[p.ID] = p
	}

	earliest := make(map[activityKey]time.Time)
	for _, m := range matches {
		for _, g := range m.Games {
			for _, sc := range g.Scores {
				key := activityKey{ruleset: m.Ruleset, playerID: sc.PlayerID}
				if existing, ok := earliest[key]; !ok || m.StartTime.Before(existing) {
					earliest[key] = m.StartTime
				}
			}
		}
	}

	out := make([]entities.PlayerRating, 0, len(earliest))
	for key, firstMatchStart := range earliest {
		player := playersByID[key.playerID]

		country, ok := countryMapping[key.playerID]
		if !ok || country == "" {
			return nil, common.NewErrInvalidInput(fmt.Sprintf("no country mapping for player %d", key.playerID))
		}

		mu := s.initialRating(player, key.ruleset)
		if math.IsNaN(mu) || mu <= 0 {
			return nil, common.NewErrInvalidInput(fmt.Sprintf("seed rating for player %d ruleset %s is non-finite or non-positive: %v", key.playerID, key.ruleset, mu))
		}

		timestamp := firstMatchStart.Add(-1 * time.Second)
		out = append(out, entities.NewPlayerRating(s.owner, key.playerID, key.ruleset, country, mu, s.constants.DefaultVolatility, timestamp))
	}

	return out, nil
}

// initialRating resolves a seed µ for (player, ruleset) using the player's
// best available rank; falls back to FALLBACK_RATING when no rank exists.
func (s *Seeder) initialRating(player entities.Player, ruleset entities.Ruleset) float64 {
	rank, ok := player.BestRankFor(ruleset)
	if !ok {
		return s.constants.FallbackRating
	}
	return s.muFromRank(rank, ruleset)
}

// muFromRank converts a global rank into a seed µ via a log-normal
// transform calibrated per ruleset.
func (s *Seeder) muFromRank(rank int, ruleset entities.Ruleset) float64 {
	mean, stddev := ruleset.SeedStats()

	z := math.Log(float64(rank)/math.Exp(mean)) / stddev

	slope := 3.0
	if z > 0 {
		slope = 4.0
	}

	val := s.constants.Multiplier * (18.0 - slope*z)

	if val < s.constants.OsuInitialRatingFloor {
		val = s.constants.OsuInitialRatingFloor
	}
	if val > s.constants.OsuInitialRatingCeiling {
		val = s.constants.OsuInitialRatingCeiling
	}

	return val
}
