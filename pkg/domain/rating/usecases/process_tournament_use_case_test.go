package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
)

type fakeRatingRepository struct {
	players        []entities.Player
	matches        []entities.Match
	countryMapping map[int]string
	saved          []entities.PlayerRating
}

func (f *fakeRatingRepository) Save(ctx context.Context, rating *entities.PlayerRating) error {
	f.saved = append(f.saved, *rating)
	return nil
}

func (f *fakeRatingRepository) SaveAll(ctx context.Context, ratings []entities.PlayerRating) error {
	f.saved = append(f.saved, ratings...)
	return nil
}

func (f *fakeRatingRepository) FindByKey(ctx context.Context, playerID int, ruleset entities.Ruleset) (*entities.PlayerRating, error) {
	for _, r := range f.saved {
		if r.PlayerID == playerID && r.Ruleset == ruleset {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingRepository) FindAllByRuleset(ctx context.Context, ruleset entities.Ruleset) ([]entities.PlayerRating, error) {
	var matching []entities.PlayerRating
	for _, r := range f.saved {
		if r.Ruleset == ruleset {
			matching = append(matching, r)
		}
	}
	return matching, nil
}

func (f *fakeRatingRepository) LoadPlayers(ctx context.Context) ([]entities.Player, error) {
	return f.players, nil
}

func (f *fakeRatingRepository) LoadMatches(ctx context.Context) ([]entities.Match, error) {
	return f.matches, nil
}

func (f *fakeRatingRepository) LoadCountryMapping(ctx context.Context) (map[int]string, error) {
	return f.countryMapping, nil
}

var _ out.RatingRepository = (*fakeRatingRepository)(nil)

type fakeLeaderboardCache struct {
	replaced map[entities.Ruleset][]entities.PlayerRating
}

func (f *fakeLeaderboardCache) ReplaceLeaderboard(ctx context.Context, ruleset entities.Ruleset, ratings []entities.PlayerRating) error {
	if f.replaced == nil {
		f.replaced = make(map[entities.Ruleset][]entities.PlayerRating)
	}
	f.replaced[ruleset] = ratings
	return nil
}

func (f *fakeLeaderboardCache) ReplaceCountryLeaderboard(ctx context.Context, country string, ruleset entities.Ruleset, ratings []entities.PlayerRating) error {
	return nil
}

func (f *fakeLeaderboardCache) Top(ctx context.Context, ruleset entities.Ruleset, n int) ([]out.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeLeaderboardCache) Rank(ctx context.Context, ruleset entities.Ruleset, playerID int) (int, error) {
	return 0, nil
}

var _ out.LeaderboardCache = (*fakeLeaderboardCache)(nil)

type fakeEventPublisher struct {
	adjustments   int
	runsCompleted int
}

func (f *fakeEventPublisher) PublishAdjustment(ctx context.Context, playerID int, ruleset entities.Ruleset, adjustment entities.RatingAdjustment) error {
	f.adjustments++
	return nil
}

func (f *fakeEventPublisher) PublishRunCompleted(ctx context.Context, summary entities.RunSummary) error {
	f.runsCompleted++
	return nil
}

var _ out.RatingEventPublisher = (*fakeEventPublisher)(nil)

func intPtr(v int) *int { return &v }

func TestProcessTournamentUseCase_HappyPathProducesRatingsAndPublishesEvents(t *testing.T) {
	matchTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeRatingRepository{
		players: []entities.Player{
			{ID: 1, RulesetData: []entities.PlayerRulesetData{{Ruleset: entities.Osu, EarliestGlobalRank: intPtr(100)}}},
			{ID: 2, RulesetData: []entities.PlayerRulesetData{{Ruleset: entities.Osu, EarliestGlobalRank: intPtr(5000)}}},
		},
		matches: []entities.Match{
			{
				ID: 1, Ruleset: entities.Osu, StartTime: matchTime,
				Games: []entities.Game{
					{ID: 1, Ruleset: entities.Osu, Scores: []entities.Score{
						{PlayerID: 1, GameID: 1, Placement: 1},
						{PlayerID: 2, GameID: 1, Placement: 2},
					}},
				},
			},
		},
		countryMapping: map[int]string{1: "US", 2: "JP"},
	}
	cache := &fakeLeaderboardCache{}
	publisher := &fakeEventPublisher{}

	uc := NewProcessTournamentUseCase(entities.DefaultConstants(), repo, publisher, cache)

	owner := common.ResourceOwner{}
	summary, err := uc.Execute(context.Background(), owner, matchTime.Add(24*time.Hour))

	require.NoError(t, err)
	assert.True(t, summary.Success())
	assert.Equal(t, 1, summary.MatchesProcessed)
	assert.Equal(t, 0, summary.MatchesSkipped)

	require.Len(t, repo.saved, 2)
	assert.Equal(t, 1, publisher.adjustments)
	assert.Equal(t, 1, publisher.runsCompleted)
	assert.Contains(t, cache.replaced, entities.Osu)
}

func TestProcessTournamentUseCase_FatalErrorAbortsAndReportsInSummary(t *testing.T) {
	matchTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeRatingRepository{
		players: []entities.Player{{ID: 1}},
		matches: []entities.Match{
			{
				ID: 1, Ruleset: entities.Osu, StartTime: matchTime,
				Games: []entities.Game{
					{ID: 1, Ruleset: entities.Osu, Scores: []entities.Score{
						{PlayerID: 1, GameID: 1, Placement: 1},
					}},
				},
			},
		},
		countryMapping: map[int]string{}, // missing mapping for player 1: seeding should abort
	}

	uc := NewProcessTournamentUseCase(entities.DefaultConstants(), repo, &fakeEventPublisher{}, &fakeLeaderboardCache{})

	summary, err := uc.Execute(context.Background(), common.ResourceOwner{}, matchTime.Add(time.Hour))

	assert.Error(t, err)
	assert.False(t, summary.Success())
	assert.Error(t, summary.FatalError)
}

func TestProcessTournamentUseCase_SkipsMatchesWithNoValidGamesButContinues(t *testing.T) {
	matchTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeRatingRepository{
		players: []entities.Player{
			{ID: 1, RulesetData: []entities.PlayerRulesetData{{Ruleset: entities.Osu, EarliestGlobalRank: intPtr(100)}}},
			{ID: 2, RulesetData: []entities.PlayerRulesetData{{Ruleset: entities.Osu, EarliestGlobalRank: intPtr(5000)}}},
		},
		matches: []entities.Match{
			{ID: 1, Ruleset: entities.Osu, StartTime: matchTime, Games: []entities.Game{
				{ID: 1, Ruleset: entities.Osu, Scores: []entities.Score{}},
			}},
			{ID: 2, Ruleset: entities.Osu, StartTime: matchTime.Add(time.Hour), Games: []entities.Game{
				{ID: 2, Ruleset: entities.Osu, Scores: []entities.Score{
					{PlayerID: 1, GameID: 2, Placement: 1},
					{PlayerID: 2, GameID: 2, Placement: 2},
				}},
			}},
		},
		countryMapping: map[int]string{1: "US", 2: "JP"},
	}

	uc := NewProcessTournamentUseCase(entities.DefaultConstants(), repo, &fakeEventPublisher{}, &fakeLeaderboardCache{})
	summary, err := uc.Execute(context.Background(), common.ResourceOwner{}, matchTime.Add(24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, 1, summary.MatchesSkipped)
	assert.Equal(t, 1, summary.MatchesProcessed)
}
