package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/osu-tournament-rating/rating-engine/cmd/rating-api/routing"
	ioc "github.com/osu-tournament-rating/rating-engine/pkg/infra/ioc"
	"github.com/osu-tournament-rating/rating-engine/pkg/infra/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	builder := ioc.NewContainerBuilder()

	c := builder.
		WithEnvFile().
		WithConstants().
		With(ioc.InjectMongoDB).
		With(ioc.InjectRedis).
		With(ioc.InjectKafka).
		WithUseCases().
		Build()

	health := observability.NewHealthService(os.Getenv("RATING_API_VERSION"))

	var mongoClient *mongo.Client
	if err := c.Resolve(&mongoClient); err != nil {
		slog.ErrorContext(ctx, "failed to resolve *mongo.Client for health checker", "err", err)
	} else {
		health.RegisterMongoDBChecker(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		})
	}

	var redisClient *redis.Client
	if err := c.Resolve(&redisClient); err != nil {
		slog.ErrorContext(ctx, "failed to resolve *redis.Client for health checker", "err", err)
	} else {
		health.RegisterRedisChecker(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	router := routing.NewRouter(ctx, c, health)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-shutdownChan
		slog.InfoContext(ctx, "received shutdown signal", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "server shutdown error", "err", err)
		}

		cancel()
	}()

	slog.InfoContext(ctx, "starting rating read API", "port", port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.ErrorContext(ctx, "server error", "err", err)
		os.Exit(1)
	}
}
