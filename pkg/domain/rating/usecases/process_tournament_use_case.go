package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/services"
)

// ProcessTournamentUseCase is the single top-level entrypoint into the
// rating engine: it loads the match corpus, seeds initial ratings, replays
// every match chronologically, runs the terminal decay sweep, and persists
// and publishes the result.
type ProcessTournamentUseCase struct {
	constants entities.Constants
	repo      out.RatingRepository
	publisher out.RatingEventPublisher
	cache     out.LeaderboardCache
}

// NewProcessTournamentUseCase wires the use case to its ports.
func NewProcessTournamentUseCase(constants entities.Constants, repo out.RatingRepository, publisher out.RatingEventPublisher, cache out.LeaderboardCache) *ProcessTournamentUseCase {
	return &ProcessTournamentUseCase{constants: constants, repo: repo, publisher: publisher, cache: cache}
}

// Execute runs one full rating pass. A fatal error aborts the run and is
// returned alongside a RunSummary carrying whatever partial counters had
// accumulated before the abort.
func (uc *ProcessTournamentUseCase) Execute(ctx context.Context, owner common.ResourceOwner, now time.Time) (entities.RunSummary, error) {
	summary := entities.RunSummary{RunID: uuid.New()}

	players, err := uc.repo.LoadPlayers(ctx)
	if err != nil {
		summary.FatalError = err
		return summary, fmt.Errorf("loading players: %w", err)
	}

	matches, err := uc.repo.LoadMatches(ctx)
	if err != nil {
		summary.FatalError = err
		return summary, fmt.Errorf("loading matches: %w", err)
	}

	countryMapping, err := uc.repo.LoadCountryMapping(ctx)
	if err != nil {
		summary.FatalError = err
		return summary, fmt.Errorf("loading country mapping: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartTime.Before(matches[j].StartTime)
	})

	seeder := services.NewSeeder(uc.constants, owner)
	initial, err := seeder.CreateInitialRatings(players, matches, countryMapping)
	if err != nil {
		summary.FatalError = err
		return summary, fmt.Errorf("seeding initial ratings: %w", err)
	}

	tracker := services.NewTracker()
	tracker.SetCountryMapping(countryMapping)
	tracker.InsertOrUpdate(initial)

	engine := services.NewEngine(uc.constants, tracker)

	for _, match := range matches {
		result, procErr := engine.ProcessMatch(match)
		if procErr != nil {
			summary.FatalError = procErr
			return summary, fmt.Errorf("processing match %d: %w", match.ID, procErr)
		}

		summary.GamesSkipped += result.GamesSkipped
		summary.DecaysApplied += result.DecaysApplied

		if result.Skipped {
			summary.MatchesSkipped++
			continue
		}
		summary.MatchesProcessed++

		if uc.publisher != nil {
			rating, ok := tracker.Get(match.Participants()[0], match.Ruleset)
			if ok {
				_ = uc.publisher.PublishAdjustment(ctx, rating.PlayerID, rating.Ruleset, rating.LastAdjustment())
			}
		}
	}

	finalizer := services.NewFinalizer(uc.constants, tracker)
	final := finalizer.Finalize(now)

	if err := uc.repo.SaveAll(ctx, final); err != nil {
		summary.FatalError = err
		return summary, fmt.Errorf("persisting final ratings: %w", err)
	}

	if uc.cache != nil {
		if err := uc.populateCache(ctx, final); err != nil {
			summary.FatalError = err
			return summary, fmt.Errorf("populating leaderboard cache: %w", err)
		}
	}

	if uc.publisher != nil {
		_ = uc.publisher.PublishRunCompleted(ctx, summary)
	}

	return summary, nil
}

func (uc *ProcessTournamentUseCase) populateCache(ctx context.Context, ratings []entities.PlayerRating) error {
	byRuleset := make(map[entities.Ruleset][]entities.PlayerRating)
	byCountryRuleset := make(map[string]map[entities.Ruleset][]entities.PlayerRating)

	for _, r := range ratings {
		byRuleset[r.Ruleset] = append(byRuleset[r.Ruleset], r)
		if r.Country != "" {
			if byCountryRuleset[r.Country] == nil {
				byCountryRuleset[r.Country] = make(map[entities.Ruleset][]entities.PlayerRating)
			}
			byCountryRuleset[r.Country][r.Ruleset] = append(byCountryRuleset[r.Country][r.Ruleset], r)
		}
	}

	for ruleset, board := range byRuleset {
		if err := uc.cache.ReplaceLeaderboard(ctx, ruleset, board); err != nil {
			return err
		}
	}

	for country, byRuleset := range byCountryRuleset {
		for ruleset, board := range byRuleset {
			if err := uc.cache.ReplaceCountryLeaderboard(ctx, country, ruleset, board); err != nil {
				return err
			}
		}
	}

	return nil
}
