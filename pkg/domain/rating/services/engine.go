package services

import (
	"fmt"
	"math"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// Engine consumes a chronologically sorted match stream and, for each
// match, applies decay, computes per-game placements under the
// Plackett-Luce model via two construction methods, blends them, applies a
// game-count correction, and writes results back via the Tracker.
type Engine struct {
	constants entities.Constants
	tracker   *Tracker
	model     *PlackettLuce
}

// NewEngine returns an Engine bound to a single Tracker, the only mutable
// state it owns.
func NewEngine(constants entities.Constants, tracker *Tracker) *Engine {
	return &Engine{constants: constants, tracker: tracker, model: NewPlackettLuce(constants)}
}

// MatchResult reports the non-fatal outcomes of processing one match.
type MatchResult struct {
	Skipped       bool
	SkipReason    entities.SkipReason
	GamesSkipped  int
	DecaysApplied int
}

// ProcessMatch runs decay, rating construction, blending and commit for a
// single match. Fatal conditions
// (negative placement, rating lookup miss) abort the run and are returned
// as an error; everything else is reported via MatchResult.
func (e *Engine) ProcessMatch(match entities.Match) (MatchResult, error) {
	validGames, gamesSkipped := e.filterValidGames(match)
	if len(validGames) == 0 {
		return MatchResult{Skipped: true, SkipReason: entities.SkipZeroGames, GamesSkipped: gamesSkipped}, nil
	}

	participants := participantsOf(validGames)

	decaysApplied, err := e.applyDecaySweep(match, participants)
	if err != nil {
		return MatchResult{}, err
	}

	startRatings := make(map[int]Rating, len(participants))
	for _, playerID := range participants {
		r, ok := e.tracker.Get(playerID, match.Ruleset)
		if !ok {
			return MatchResult{}, common.NewErrInvalidInput(fmt.Sprintf("rating lookup miss for player %d ruleset %s during match %d", playerID, match.Ruleset, match.ID))
		}
		startRatings[playerID] = Rating{Mu: r.Rating, Sigma: r.Volatility}
	}

	ratingsA, err := e.generateRatings(match.Ruleset, validGames)
	if err != nil {
		return MatchResult{}, err
	}

	clonedGames := cloneGames(validGames)
	applyTieForLastScores(clonedGames, participants)
	ratingsB, err := e.generateRatings(match.Ruleset, clonedGames)
	if err != nil {
		return MatchResult{}, err
	}

	totalGames := float64(len(validGames))
	correction := math.Pow(totalGames/8.0, e.constants.GameCorrectionConstant)

	updated := make([]entities.PlayerRating, 0, len(participants))
	for _, playerID := range participants {
		start := startRatings[playerID]

		weightedDeltaR := (e.constants.WeightA*sumMuDelta(ratingsA[playerID], start.Mu) +
			e.constants.WeightB*sumMuDelta(ratingsB[playerID], start.Mu)) / totalGames

		weightedDeltaSigma := (e.constants.WeightA*sumSigmaDelta(ratingsA[playerID], start.Sigma) +
			e.constants.WeightB*sumSigmaDelta(ratingsB[playerID], start.Sigma)) / totalGames

		correctedDeltaR := weightedDeltaR * correction
		correctedDeltaSigma := weightedDeltaSigma * correction

		newMu := math.Max(e.constants.AbsoluteRatingFloor, start.Mu+correctedDeltaR)

		sigmaFactor := math.Max(0, 1-correctedDeltaSigma)
		newSigma := math.Min(e.constants.DefaultVolatility, start.Sigma*math.Sqrt(sigmaFactor))

		current, _ := e.tracker.Get(playerID, match.Ruleset)
		matchID := match.ID
		current.Adjustments = append(current.Adjustments, entities.RatingAdjustment{
			Kind:             entities.MatchAdjustment,
			MatchID:          &matchID,
			RatingBefore:     start.Mu,
			RatingAfter:      newMu,
			VolatilityBefore: start.Sigma,
			VolatilityAfter:  newSigma,
			Timestamp:        match.StartTime,
		})
		current.Rating = newMu
		current.Volatility = newSigma

		updated = append(updated, current)
	}

	e.tracker.InsertOrUpdate(updated)

	return MatchResult{GamesSkipped: gamesSkipped, DecaysApplied: decaysApplied}, nil
}

// filterValidGames drops games whose ruleset mismatches the match's, or
// which carry zero scores.
func (e *Engine) filterValidGames(match entities.Match) ([]entities.Game, int) {
	valid := make([]entities.Game, 0, len(match.Games))
	skipped := 0
	for _, g := range match.Games {
		if g.Ruleset != match.Ruleset || len(g.Scores) == 0 {
			skipped++
			continue
		}
		valid = append(valid, g)
	}
	return valid, skipped
}

func participantsOf(games []entities.Game) []int {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, g := range games {
		for _, s := range g.Scores {
			if _, ok := seen[s.PlayerID]; !ok {
				seen[s.PlayerID] = struct{}{}
				ids = append(ids, s.PlayerID)
			}
		}
	}
	return ids
}

func (e *Engine) applyDecaySweep(match entities.Match, participants []int) (int, error) {
	decaySystem := NewDecaySystem(e.constants, match.StartTime)
	applied := 0
	for _, playerID := range participants {
		rating, ok := e.tracker.Get(playerID, match.Ruleset)
		if !ok {
			return applied, common.NewErrInvalidInput(fmt.Sprintf("rating lookup miss for player %d ruleset %s during decay sweep for match %d", playerID, match.Ruleset, match.ID))
		}
		updated, didApply, _ := decaySystem.Evaluate(rating)
		if didApply {
			e.tracker.InsertOrUpdate([]entities.PlayerRating{updated})
			applied++
		}
	}
	return applied, nil
}

// generateRatings runs the Plackett-Luce model once per game (Method A, or
// Method A over a synthetic match for Method B), accumulating each
// player's sequence of per-game post-rate Ratings.
func (e *Engine) generateRatings(ruleset entities.Ruleset, games []entities.Game) (map[int][]Rating, error) {
	out := make(map[int][]Rating)
	for _, g := range games {
		teams := make([][]Rating, len(g.Scores))
		placements := make([]int, len(g.Scores))

		for i, sc := range g.Scores {
			if sc.Placement < 1 {
				return nil, common.NewErrInvalidInput(fmt.Sprintf("negative or zero placement %d for player %d in game %d", sc.Placement, sc.PlayerID, sc.GameID))
			}

			r, ok := e.tracker.Get(sc.PlayerID, ruleset)
			if !ok {
				return nil, common.NewErrInvalidInput(fmt.Sprintf("rating lookup miss for player %d ruleset %s during game %d", sc.PlayerID, ruleset, sc.GameID))
			}

			teams[i] = []Rating{{Mu: r.Rating, Sigma: r.Volatility}}
			placements[i] = sc.Placement
		}

		results := e.model.Rate(teams, placements)
		for i, sc := range g.Scores {
			out[sc.PlayerID] = append(out[sc.PlayerID], results[i][0])
		}
	}
	return out, nil
}

func cloneGames(games []entities.Game) []entities.Game {
	out := make([]entities.Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
	}
	return out
}

// applyTieForLastScores mutates games in place, giving every participant
// missing from a game a synthetic last-place score (Method B).
func applyTieForLastScores(games []entities.Game, participants []int) {
	for i := range games {
		worst := 0
		for _, sc := range games[i].Scores {
			if sc.Placement > worst {
				worst = sc.Placement
			}
		}
		tieForLast := worst + 1

		present := make(map[int]struct{}, len(games[i].Scores))
		for _, sc := range games[i].Scores {
			present[sc.PlayerID] = struct{}{}
		}

		for _, playerID := range participants {
			if _, ok := present[playerID]; ok {
				continue
			}
			games[i].Scores = append(games[i].Scores, entities.Score{
				PlayerID:  playerID,
				GameID:    games[i].ID,
				Score:     0,
				Placement: tieForLast,
			})
		}
	}
}

func sumMuDelta(ratings []Rating, startMu float64) float64 {
	total := 0.0
	for _, r := range ratings {
		total += r.Mu - startMu
	}
	return total
}

func sumSigmaDelta(ratings []Rating, startSigma float64) float64 {
	total := 0.0
	for _, r := range ratings {
		total += 1 - (r.Sigma/startSigma)*(r.Sigma/startSigma)
	}
	return total
}
