package ioc

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	container "github.com/golobby/container/v3"
	"github.com/redis/go-redis/v9"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/usecases"

	db "github.com/osu-tournament-rating/rating-engine/pkg/infra/db/mongodb"
	rediscache "github.com/osu-tournament-rating/rating-engine/pkg/infra/cache/redis"
	infrakafka "github.com/osu-tournament-rating/rating-engine/pkg/infra/kafka"
	kafkapublisher "github.com/osu-tournament-rating/rating-engine/pkg/infra/messaging/kafka"
)

// ContainerBuilder assembles the rating engine's dependency graph through a
// chain of With* calls, each registering one or more singletons.
type ContainerBuilder struct {
	Container container.Container
}

// NewContainerBuilder returns an empty ContainerBuilder with itself and its
// underlying container already registered, so any resolver can request
// either one.
func NewContainerBuilder() *ContainerBuilder {
	c := container.New()

	b := &ContainerBuilder{c}

	err := c.Singleton(func() container.Container {
		return b.Container
	})
	if err != nil {
		slog.Error("failed to register container.Container in NewContainerBuilder")
		panic(err)
	}

	err = c.Singleton(func() *ContainerBuilder {
		return b
	})
	if err != nil {
		slog.Error("failed to register *ContainerBuilder in NewContainerBuilder")
		panic(err)
	}

	return b
}

// Build returns the underlying golobby container.
func (b *ContainerBuilder) Build() container.Container {
	return b.Container
}

// With registers an arbitrary singleton resolver, panicking on registration
// failure (a programmer error, never a runtime one).
func (b *ContainerBuilder) With(resolver interface{}) *ContainerBuilder {
	c := b.Container

	if err := c.Singleton(resolver); err != nil {
		slog.Error("failed to register resolver", "err", err)
		panic(err)
	}

	return b
}

// WithEnvFile loads a .env file when DEV_ENV=true, then registers
// common.Config built from the resulting environment.
func (b *ContainerBuilder) WithEnvFile() *ContainerBuilder {
	if os.Getenv("DEV_ENV") == "true" {
		if err := godotenv.Load(); err != nil {
			slog.Error("failed to load .env file")
			panic(err)
		}
	}

	err := b.Container.Singleton(func() (common.Config, error) {
		return EnvironmentConfig()
	})
	if err != nil {
		slog.Error("failed to load common.Config")
		panic(err)
	}

	return b
}

// WithConstants registers the rating model's default tunables.
func (b *ContainerBuilder) WithConstants() *ContainerBuilder {
	err := b.Container.Singleton(func() entities.Constants {
		return entities.DefaultConstants()
	})
	if err != nil {
		slog.Error("failed to register entities.Constants")
		panic(err)
	}

	return b
}

// InjectMongoDB registers the shared *mongo.Client, *mongo.Database, and the
// RatingRepository backing both the write side and the run's read corpus.
func InjectMongoDB(c container.Container) error {
	err := c.Singleton(func() (*mongo.Client, error) {
		var config common.Config

		if err := c.Resolve(&config); err != nil {
			slog.Error("failed to resolve config for mongo.Client", "err", err)
			return nil, err
		}

		mongoOptions := options.Client().ApplyURI(config.MongoDB.URI)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, mongoOptions)
		if err != nil {
			slog.Error("failed to connect to MongoDB", "err", err)
			return nil, err
		}

		return client, nil
	})
	if err != nil {
		slog.Error("failed to register *mongo.Client")
		return err
	}

	err = c.Singleton(func() (*mongo.Database, error) {
		var client *mongo.Client
		var config common.Config

		if err := c.Resolve(&client); err != nil {
			return nil, err
		}
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return client.Database(config.MongoDB.DBName), nil
	})
	if err != nil {
		slog.Error("failed to register *mongo.Database")
		return err
	}

	err = c.Singleton(func() (out.RatingRepository, error) {
		var database *mongo.Database
		if err := c.Resolve(&database); err != nil {
			return nil, err
		}

		return db.NewRatingMongoDBRepository(database), nil
	})
	if err != nil {
		slog.Error("failed to register out.RatingRepository")
		return err
	}

	return nil
}

// InjectRedis registers the shared *redis.Client and the LeaderboardCache
// projected onto it.
func InjectRedis(c container.Container) error {
	err := c.Singleton(func() (*redis.Client, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return rediscache.NewClientFromConfig(config.Redis), nil
	})
	if err != nil {
		slog.Error("failed to register *redis.Client")
		return err
	}

	err = c.Singleton(func() (out.LeaderboardCache, error) {
		var client *redis.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		return rediscache.NewRatingLeaderboardCache(client), nil
	})
	if err != nil {
		slog.Error("failed to register out.LeaderboardCache")
		return err
	}

	return nil
}

// InjectKafka registers the shared *infrakafka.Client and the
// RatingEventPublisher built on top of it.
func InjectKafka(c container.Container) error {
	err := c.Singleton(func() (*infrakafka.Client, error) {
		var config common.Config
		if err := c.Resolve(&config); err != nil {
			return nil, err
		}

		return infrakafka.NewClient(&infrakafka.Config{
			BootstrapServers: config.Kafka.Brokers,
		})
	})
	if err != nil {
		slog.Error("failed to register *infrakafka.Client")
		return err
	}

	err = c.Singleton(func() (out.RatingEventPublisher, error) {
		var client *infrakafka.Client
		if err := c.Resolve(&client); err != nil {
			return nil, err
		}

		return kafkapublisher.NewRatingEventPublisher(client), nil
	})
	if err != nil {
		slog.Error("failed to register out.RatingEventPublisher")
		return err
	}

	return nil
}

// WithUseCases registers the top-level ProcessTournamentUseCase, wiring it
// to whichever RatingRepository, RatingEventPublisher and LeaderboardCache
// are already registered.
func (b *ContainerBuilder) WithUseCases() *ContainerBuilder {
	c := b.Container

	err := c.Singleton(func() (*usecases.ProcessTournamentUseCase, error) {
		var constants entities.Constants
		var repo out.RatingRepository
		var publisher out.RatingEventPublisher
		var cache out.LeaderboardCache

		if err := c.Resolve(&constants); err != nil {
			slog.Error("failed to resolve entities.Constants for ProcessTournamentUseCase", "err", err)
			return nil, err
		}
		if err := c.Resolve(&repo); err != nil {
			slog.Error("failed to resolve out.RatingRepository for ProcessTournamentUseCase", "err", err)
			return nil, err
		}
		if err := c.Resolve(&publisher); err != nil {
			slog.Error("failed to resolve out.RatingEventPublisher for ProcessTournamentUseCase", "err", err)
			return nil, err
		}
		if err := c.Resolve(&cache); err != nil {
			slog.Error("failed to resolve out.LeaderboardCache for ProcessTournamentUseCase", "err", err)
			return nil, err
		}

		return usecases.NewProcessTournamentUseCase(constants, repo, publisher, cache), nil
	})
	if err != nil {
		slog.Error("failed to register *usecases.ProcessTournamentUseCase")
		panic(err)
	}

	return b
}
