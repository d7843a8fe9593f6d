package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
)

// RatingLeaderboardCache projects the Tracker's sorted output into Redis
// sorted sets, one per ruleset and one per (country, ruleset), giving O(log
// N) rank and top-N reads without touching the source of truth.
type RatingLeaderboardCache struct {
	client *redis.Client
}

// NewRatingLeaderboardCache wraps an already-connected redis.Client.
func NewRatingLeaderboardCache(client *redis.Client) out.LeaderboardCache {
	return &RatingLeaderboardCache{client: client}
}

// NewClientFromConfig builds a redis.Client from a RedisConfig.
func NewClientFromConfig(cfg common.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func globalKey(ruleset entities.Ruleset) string {
	return fmt.Sprintf("leaderboard:%s", ruleset)
}

func countryKey(country string, ruleset entities.Ruleset) string {
	return fmt.Sprintf("leaderboard:%s:%s", country, ruleset)
}

// ReplaceLeaderboard atomically swaps the cached ruleset-wide ranking.
func (c *RatingLeaderboardCache) ReplaceLeaderboard(ctx context.Context, ruleset entities.Ruleset, ratings []entities.PlayerRating) error {
	return c.replace(ctx, globalKey(ruleset), ratings)
}

// ReplaceCountryLeaderboard atomically swaps the cached (country, ruleset)
// ranking.
func (c *RatingLeaderboardCache) ReplaceCountryLeaderboard(ctx context.Context, country string, ruleset entities.Ruleset, ratings []entities.PlayerRating) error {
	return c.replace(ctx, countryKey(country, ruleset), ratings)
}

func (c *RatingLeaderboardCache) replace(ctx context.Context, key string, ratings []entities.PlayerRating) error {
	tmp := key + ":staging"

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, tmp)

	if len(ratings) > 0 {
		members := make([]redis.Z, len(ratings))
		for i, r := range ratings {
			members[i] = redis.Z{Score: r.Rating, Member: strconv.Itoa(r.PlayerID)}
		}
		pipe.ZAdd(ctx, tmp, members...)
	}

	pipe.Rename(ctx, tmp, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace leaderboard %s: %w", key, err)
	}

	return nil
}

// Top returns the highest-rated n entries for a ruleset.
func (c *RatingLeaderboardCache) Top(ctx context.Context, ruleset entities.Ruleset, n int) ([]out.LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, globalKey(ruleset), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard top: %w", err)
	}

	entries := make([]out.LeaderboardEntry, 0, len(results))
	for _, z := range results {
		playerID, err := strconv.Atoi(z.Member.(string))
		if err != nil {
			continue
		}
		entries = append(entries, out.LeaderboardEntry{PlayerID: playerID, Rating: z.Score})
	}

	return entries, nil
}

// Rank returns the 1-based cached rank of a player within a ruleset.
func (c *RatingLeaderboardCache) Rank(ctx context.Context, ruleset entities.Ruleset, playerID int) (int, error) {
	rank, err := c.client.ZRevRank(ctx, globalKey(ruleset), strconv.Itoa(playerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, common.NewErrNotFound(common.ResourceType("PlayerRating"), "player_id", playerID)
		}
		return 0, fmt.Errorf("failed to read player rank: %w", err)
	}

	return int(rank) + 1, nil
}

var _ out.LeaderboardCache = (*RatingLeaderboardCache)(nil)
