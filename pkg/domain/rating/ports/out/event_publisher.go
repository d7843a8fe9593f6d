package out

import (
	"context"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// RatingEventPublisher is the outbound messaging port. The core rating
// algorithms never call it directly; only the orchestration use case does,
// after a commit has already landed in the Tracker/Repository.
type RatingEventPublisher interface {
	// PublishAdjustment announces one committed RatingAdjustment for a
	// (player, ruleset) pair.
	PublishAdjustment(ctx context.Context, playerID int, ruleset entities.Ruleset, adjustment entities.RatingAdjustment) error

	// PublishRunCompleted announces that a full run has finished.
	PublishRunCompleted(ctx context.Context, summary entities.RunSummary) error
}
