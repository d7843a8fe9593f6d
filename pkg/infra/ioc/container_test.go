//go:build integration

// Package ioc_test contains integration tests for the IoC container. These
// require a running MongoDB, Redis and Kafka instance and should only run
// in environments with that access (e.g. local dev or an integration CI job).
package ioc_test

import (
	"os"
	"testing"

	"github.com/golobby/container/v3"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/usecases"
	ioc "github.com/osu-tournament-rating/rating-engine/pkg/infra/ioc"
)

var c container.Container

func getContainer() container.Container {
	os.Setenv("DEV_ENV", "test")
	os.Setenv("MONGO_URI", "mongodb://127.0.0.1:37019/rating_engine_test")
	os.Setenv("MONGODB_DATABASE", "rating_engine_test")
	os.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	os.Setenv("KAFKA_BROKERS", "127.0.0.1:9092")

	if c == nil {
		c = ioc.NewContainerBuilder().
			WithEnvFile().
			WithConstants().
			With(ioc.InjectMongoDB).
			With(ioc.InjectRedis).
			With(ioc.InjectKafka).
			WithUseCases().
			Build()
	}

	return c
}

func TestResolveRatingRepository(t *testing.T) {
	container := getContainer()

	var repo out.RatingRepository
	if err := container.Resolve(&repo); err != nil {
		t.Fatalf("failed to resolve out.RatingRepository: %v", err)
	}
}

func TestResolveLeaderboardCache(t *testing.T) {
	container := getContainer()

	var cache out.LeaderboardCache
	if err := container.Resolve(&cache); err != nil {
		t.Fatalf("failed to resolve out.LeaderboardCache: %v", err)
	}
}

func TestResolveConstants(t *testing.T) {
	container := getContainer()

	var constants entities.Constants
	if err := container.Resolve(&constants); err != nil {
		t.Fatalf("failed to resolve entities.Constants: %v", err)
	}

	if constants.WeightA+constants.WeightB != 1.0 {
		t.Fatalf("expected WeightA + WeightB == 1.0, got %v", constants.WeightA+constants.WeightB)
	}
}

func TestResolveProcessTournamentUseCase(t *testing.T) {
	container := getContainer()

	var uc *usecases.ProcessTournamentUseCase
	if err := container.Resolve(&uc); err != nil {
		t.Fatalf("failed to resolve *usecases.ProcessTournamentUseCase: %v", err)
	}

	if uc == nil {
		t.Fatalf("resolved ProcessTournamentUseCase is nil")
	}
}
