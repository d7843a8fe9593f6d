package routing

import (
	"context"

	"github.com/golobby/container/v3"
	"github.com/gorilla/mux"

	"github.com/osu-tournament-rating/rating-engine/cmd/rating-api/controllers"
	"github.com/osu-tournament-rating/rating-engine/pkg/infra/metrics"
	"github.com/osu-tournament-rating/rating-engine/pkg/infra/observability"
)

const (
	PlayerRating = "/players/{id}/rating/{ruleset}"
	PlayerRank   = "/players/{id}/rank/{ruleset}"
	Leaderboard  = "/leaderboard/{ruleset}"
	Metrics      = "/metrics"
	Health       = "/health"
)

// NewRouter wires the read API's handlers: the rating/leaderboard
// controller, the Prometheus metrics endpoint, and the health/liveness/
// readiness probes, all behind the shared HTTP instrumentation middleware.
func NewRouter(ctx context.Context, c container.Container, health *observability.HealthService) *mux.Router {
	router := mux.NewRouter()

	ratingController := controllers.NewRatingController(c)

	router.HandleFunc(PlayerRating, ratingController.GetPlayerRatingHandler).Methods("GET")
	router.HandleFunc(PlayerRank, ratingController.GetPlayerRankHandler).Methods("GET")
	router.HandleFunc(Leaderboard, ratingController.GetLeaderboardHandler).Methods("GET")

	router.Handle(Metrics, metrics.Handler()).Methods("GET")
	router.PathPrefix(Health).Handler(health.HTTPHandler())

	router.Use(metrics.Middleware)

	return router
}
