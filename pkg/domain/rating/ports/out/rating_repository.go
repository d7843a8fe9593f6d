package out

import (
	"context"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// RatingRepository is the durable-store port for PlayerRating documents and
// the read-side corpus the rating engine is fed from. Implementations live
// under pkg/infra (e.g. MongoDB).
type RatingRepository interface {
	// Save persists (inserts or replaces) a single PlayerRating.
	Save(ctx context.Context, rating *entities.PlayerRating) error

	// SaveAll persists a batch of PlayerRatings in one round trip.
	SaveAll(ctx context.Context, ratings []entities.PlayerRating) error

	// FindByKey returns the stored PlayerRating for (playerID, ruleset), or
	// nil if none exists yet.
	FindByKey(ctx context.Context, playerID int, ruleset entities.Ruleset) (*entities.PlayerRating, error)

	// FindAllByRuleset returns every stored PlayerRating for a ruleset.
	FindAllByRuleset(ctx context.Context, ruleset entities.Ruleset) ([]entities.PlayerRating, error)

	// LoadPlayers returns the full player rank-history corpus for a run.
	LoadPlayers(ctx context.Context) ([]entities.Player, error)

	// LoadMatches returns the verified match corpus, pre-sorted by
	// start_time ascending, for a run.
	LoadMatches(ctx context.Context) ([]entities.Match, error)

	// LoadCountryMapping returns the process-wide player_id -> country code
	// table.
	LoadCountryMapping(ctx context.Context) (map[int]string, error)
}
