package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
)

// RatingMongoDBRepository implements out.RatingRepository against four
// collections in one database: player_ratings (write side, one document per
// (player_id, ruleset)), players and matches (the read-only corpus a run is
// replayed from), and country_mapping.
type RatingMongoDBRepository struct {
	ratings   *mongo.Collection
	players   *mongo.Collection
	matches   *mongo.Collection
	countries *mongo.Collection
}

// NewRatingMongoDBRepository returns a RatingMongoDBRepository, creating the
// indexes player_ratings needs to serve leaderboard queries efficiently.
func NewRatingMongoDBRepository(db *mongo.Database) out.RatingRepository {
	ratings := db.Collection("player_ratings")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "player_id", Value: 1}, {Key: "ruleset", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "ruleset", Value: 1}, {Key: "rating", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "country", Value: 1}, {Key: "ruleset", Value: 1}, {Key: "rating", Value: -1}},
		},
	}

	if _, err := ratings.Indexes().CreateMany(ctx, indexes); err != nil {
		slog.Warn("failed to create player_ratings indexes", "error", err)
	}

	return &RatingMongoDBRepository{
		ratings:   ratings,
		players:   db.Collection("players"),
		matches:   db.Collection("matches"),
		countries: db.Collection("country_mapping"),
	}
}

// Save upserts a single PlayerRating keyed by (player_id, ruleset).
func (r *RatingMongoDBRepository) Save(ctx context.Context, rating *entities.PlayerRating) error {
	filter := bson.M{"player_id": rating.PlayerID, "ruleset": rating.Ruleset}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.ratings.ReplaceOne(ctx, filter, rating, opts); err != nil {
		slog.ErrorContext(ctx, "failed to save player rating", "player_id", rating.PlayerID, "ruleset", rating.Ruleset, "error", err)
		return fmt.Errorf("failed to save player rating: %w", err)
	}

	return nil
}

// SaveAll upserts a batch of PlayerRatings via bulk write.
func (r *RatingMongoDBRepository) SaveAll(ctx context.Context, ratings []entities.PlayerRating) error {
	if len(ratings) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(ratings))
	for i := range ratings {
		filter := bson.M{"player_id": ratings[i].PlayerID, "ruleset": ratings[i].Ruleset}
		models = append(models, mongo.NewReplaceOneModel().SetFilter(filter).SetReplacement(ratings[i]).SetUpsert(true))
	}

	if _, err := r.ratings.BulkWrite(ctx, models); err != nil {
		slog.ErrorContext(ctx, "failed to save player ratings batch", "count", len(ratings), "error", err)
		return fmt.Errorf("failed to save player ratings batch: %w", err)
	}

	return nil
}

// FindByKey returns the stored PlayerRating for (playerID, ruleset), or nil
// if none exists.
func (r *RatingMongoDBRepository) FindByKey(ctx context.Context, playerID int, ruleset entities.Ruleset) (*entities.PlayerRating, error) {
	filter := bson.M{"player_id": playerID, "ruleset": ruleset}

	var rating entities.PlayerRating
	err := r.ratings.FindOne(ctx, filter).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		slog.ErrorContext(ctx, "failed to find player rating", "player_id", playerID, "ruleset", ruleset, "error", err)
		return nil, fmt.Errorf("failed to find player rating: %w", err)
	}

	return &rating, nil
}

// FindAllByRuleset returns every stored PlayerRating for a ruleset, sorted
// by rating descending.
func (r *RatingMongoDBRepository) FindAllByRuleset(ctx context.Context, ruleset entities.Ruleset) ([]entities.PlayerRating, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})

	cursor, err := r.ratings.Find(ctx, bson.M{"ruleset": ruleset}, opts)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list player ratings", "ruleset", ruleset, "error", err)
		return nil, fmt.Errorf("failed to list player ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var ratings []entities.PlayerRating
	if err := cursor.All(ctx, &ratings); err != nil {
		return nil, fmt.Errorf("failed to decode player ratings: %w", err)
	}

	return ratings, nil
}

// LoadPlayers returns the full rank-history corpus.
func (r *RatingMongoDBRepository) LoadPlayers(ctx context.Context) ([]entities.Player, error) {
	cursor, err := r.players.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	defer cursor.Close(ctx)

	var players []entities.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}

	return players, nil
}

// LoadMatches returns the verified match corpus, sorted by start_time
// ascending.
func (r *RatingMongoDBRepository) LoadMatches(ctx context.Context) ([]entities.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.matches.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	defer cursor.Close(ctx)

	var matches []entities.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}

	return matches, nil
}

// LoadCountryMapping returns the process-wide player_id -> country table.
func (r *RatingMongoDBRepository) LoadCountryMapping(ctx context.Context) (map[int]string, error) {
	cursor, err := r.countries.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load country mapping: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		PlayerID int    `bson:"player_id"`
		Country  string `bson:"country"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode country mapping: %w", err)
	}

	out := make(map[int]string, len(docs))
	for _, d := range docs {
		out[d.PlayerID] = d.Country
	}

	return out, nil
}

var _ out.RatingRepository = (*RatingMongoDBRepository)(nil)
