package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/usecases"
	ioc "github.com/osu-tournament-rating/rating-engine/pkg/infra/ioc"
)

// resourceOwnerFromEnv builds the ResourceOwner a batch run operates under.
// It is threaded explicitly into the use case rather than pulled from a
// request context, since a batch run has none.
func resourceOwnerFromEnv() (common.ResourceOwner, error) {
	tenantID, err := uuid.Parse(os.Getenv("RATING_ENGINE_TENANT_ID"))
	if err != nil {
		return common.ResourceOwner{}, err
	}

	clientID, err := uuid.Parse(os.Getenv("RATING_ENGINE_CLIENT_ID"))
	if err != nil {
		return common.ResourceOwner{}, err
	}

	return common.ResourceOwner{TenantID: tenantID, ClientID: clientID}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	owner, err := resourceOwnerFromEnv()
	if err != nil {
		slog.ErrorContext(ctx, "invalid RATING_ENGINE_TENANT_ID or RATING_ENGINE_CLIENT_ID", "err", err)
		os.Exit(1)
	}

	builder := ioc.NewContainerBuilder()

	c := builder.
		WithEnvFile().
		WithConstants().
		With(ioc.InjectMongoDB).
		With(ioc.InjectRedis).
		With(ioc.InjectKafka).
		WithUseCases().
		Build()

	var uc *usecases.ProcessTournamentUseCase
	if err := c.Resolve(&uc); err != nil {
		slog.ErrorContext(ctx, "failed to resolve ProcessTournamentUseCase", "err", err)
		os.Exit(1)
	}

	start := time.Now()
	summary, err := uc.Execute(ctx, owner, start)
	if err != nil {
		slog.ErrorContext(ctx, "rating run aborted", "err", err, "matches_processed", summary.MatchesProcessed)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "rating run complete",
		"run_id", summary.RunID,
		"matches_processed", summary.MatchesProcessed,
		"matches_skipped", summary.MatchesSkipped,
		"games_skipped", summary.GamesSkipped,
		"decays_applied", summary.DecaysApplied,
		"duration", time.Since(start),
	)
}
