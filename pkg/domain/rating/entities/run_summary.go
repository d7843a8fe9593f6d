package entities

import "github.com/google/uuid"

// SkipReason records why a match, game or decay evaluation was skipped
// without aborting the run.
type SkipReason string

const (
	SkipZeroGames              SkipReason = "zero_games"
	SkipRulesetMismatch        SkipReason = "ruleset_mismatch"
	SkipZeroScores             SkipReason = "zero_scores"
	SkipDecayNoAdjustments     SkipReason = "decay_no_adjustments"
	SkipDecayPlayerActive      SkipReason = "decay_player_active"
	SkipDecayInitialRating     SkipReason = "decay_initial_rating"
	SkipDecayBelowDecayFloor   SkipReason = "decay_below_floor"
)

// RunSummary is returned by the top-level use case: a run reports its
// skips and fatal aborts here rather than through a non-zero exit alone.
type RunSummary struct {
	RunID uuid.UUID `json:"run_id"`

	MatchesProcessed int `json:"matches_processed"`
	MatchesSkipped   int `json:"matches_skipped"`
	GamesSkipped     int `json:"games_skipped"`
	DecaysApplied    int `json:"decays_applied"`
	DecaysSkipped    int `json:"decays_skipped"`

	FatalError error `json:"-"`
}

// Success reports whether the run completed without a fatal abort.
func (s RunSummary) Success() bool {
	return s.FatalError == nil
}
