package kafka

import (
	"context"
	"fmt"
	"strconv"
	"time"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
	infrakafka "github.com/osu-tournament-rating/rating-engine/pkg/infra/kafka"
)

const (
	adjustmentsTopic  = "rating.adjustments"
	runCompletedTopic = "rating.runs.completed"
)

// adjustmentEvent is the wire shape of one published rating adjustment.
type adjustmentEvent struct {
	PlayerID         int       `json:"player_id"`
	Ruleset          string    `json:"ruleset"`
	Kind             string    `json:"kind"`
	MatchID          *int      `json:"match_id,omitempty"`
	RatingBefore     float64   `json:"rating_before"`
	RatingAfter      float64   `json:"rating_after"`
	VolatilityBefore float64   `json:"volatility_before"`
	VolatilityAfter  float64   `json:"volatility_after"`
	Timestamp        time.Time `json:"timestamp"`
}

// runCompletedEvent mirrors entities.RunSummary over the wire.
type runCompletedEvent struct {
	RunID            string `json:"run_id"`
	MatchesProcessed int    `json:"matches_processed"`
	MatchesSkipped   int    `json:"matches_skipped"`
	GamesSkipped     int    `json:"games_skipped"`
	DecaysApplied    int    `json:"decays_applied"`
	DecaysSkipped    int    `json:"decays_skipped"`
}

// RatingEventPublisher publishes committed rating adjustments and run
// completions onto Kafka.
type RatingEventPublisher struct {
	client *infrakafka.Client
}

// NewRatingEventPublisher wraps an already-constructed *infrakafka.Client.
func NewRatingEventPublisher(client *infrakafka.Client) out.RatingEventPublisher {
	return &RatingEventPublisher{client: client}
}

// PublishAdjustment announces one committed RatingAdjustment.
func (p *RatingEventPublisher) PublishAdjustment(ctx context.Context, playerID int, ruleset entities.Ruleset, adjustment entities.RatingAdjustment) error {
	event := adjustmentEvent{
		PlayerID:         playerID,
		Ruleset:          ruleset.String(),
		Kind:             string(adjustment.Kind),
		MatchID:          adjustment.MatchID,
		RatingBefore:     adjustment.RatingBefore,
		RatingAfter:      adjustment.RatingAfter,
		VolatilityBefore: adjustment.VolatilityBefore,
		VolatilityAfter:  adjustment.VolatilityAfter,
		Timestamp:        adjustment.Timestamp,
	}

	err := p.client.Publish(ctx, adjustmentsTopic, &infrakafka.Message{
		Key:       fmt.Sprintf("%d:%s", playerID, ruleset),
		Value:     event,
		Timestamp: adjustment.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to publish rating adjustment: %w", err)
	}

	return nil
}

// PublishRunCompleted announces that a full run has finished.
func (p *RatingEventPublisher) PublishRunCompleted(ctx context.Context, summary entities.RunSummary) error {
	event := runCompletedEvent{
		RunID:            summary.RunID.String(),
		MatchesProcessed: summary.MatchesProcessed,
		MatchesSkipped:   summary.MatchesSkipped,
		GamesSkipped:     summary.GamesSkipped,
		DecaysApplied:    summary.DecaysApplied,
		DecaysSkipped:    summary.DecaysSkipped,
	}

	err := p.client.Publish(ctx, runCompletedTopic, &infrakafka.Message{
		Key:   strconv.Itoa(summary.MatchesProcessed),
		Value: event,
	})
	if err != nil {
		return fmt.Errorf("failed to publish run completed event: %w", err)
	}

	return nil
}

var _ out.RatingEventPublisher = (*RatingEventPublisher)(nil)
