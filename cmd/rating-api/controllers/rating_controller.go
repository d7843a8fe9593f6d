package controllers

import (
	"net/http"
	"strconv"

	"github.com/golobby/container/v3"
	"github.com/gorilla/mux"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/in"
	"github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/ports/out"
)

// RatingController exposes the leaderboard and player-rating read surface.
// It is resolved once per router and reuses the container's already-wired
// LeaderboardCache and
// RatingRepository singletons.
type RatingController struct {
	container container.Container
}

// NewRatingController builds a RatingController bound to the given DI
// container, from which handlers resolve the repository and cache ports
// lazily at request time.
func NewRatingController(c container.Container) *RatingController {
	return &RatingController{container: c}
}

// GetPlayerRatingHandler handles GET /players/{id}/rating/{ruleset}.
func (rc *RatingController) GetPlayerRatingHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	playerID, err := strconv.Atoi(vars["id"])
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "id must be an integer", "")
		return
	}

	ruleset, ok := entities.ParseRuleset(vars["ruleset"])
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "unrecognized ruleset", "")
		return
	}

	query := in.GetPlayerRatingQuery{PlayerID: playerID, Ruleset: ruleset}
	if err := query.Validate(); err != nil {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), "")
		return
	}

	var repo out.RatingRepository
	if err := rc.container.Resolve(&repo); err != nil {
		common.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "rating repository unavailable", "")
		return
	}

	rating, err := repo.FindByKey(r.Context(), query.PlayerID, query.Ruleset)
	if err != nil {
		common.WriteErrorFromDomainError(w, err)
		return
	}
	if rating == nil {
		common.WriteErrorFromDomainError(w, common.NewErrNotFound(common.ResourceTypePlayerRating, "player_id", playerID))
		return
	}

	common.WriteSuccess(w, rating)
}

// GetLeaderboardHandler handles GET /leaderboard/{ruleset}?country=&limit=.
// country is validated as a 2-letter code but not applied: entries always
// come from the ruleset-wide cached leaderboard.
func (rc *RatingController) GetLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ruleset, ok := entities.ParseRuleset(vars["ruleset"])
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "unrecognized ruleset", "")
		return
	}

	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	query := in.GetLeaderboardQuery{
		Ruleset: ruleset,
		Country: q.Get("country"),
		Limit:   uint(limit),
	}
	if err := query.Validate(); err != nil {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error(), "")
		return
	}

	var cache out.LeaderboardCache
	if err := rc.container.Resolve(&cache); err != nil {
		common.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "leaderboard cache unavailable", "")
		return
	}

	entries, err := cache.Top(r.Context(), query.Ruleset, int(query.Limit))
	if err != nil {
		common.WriteErrorFromDomainError(w, err)
		return
	}

	common.WriteSuccess(w, map[string]interface{}{
		"ruleset": ruleset.String(),
		"entries": entries,
	})
}

// GetPlayerRankHandler handles GET /players/{id}/rank/{ruleset}, returning
// the player's current cached rank within the leaderboard.
func (rc *RatingController) GetPlayerRankHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	playerID, err := strconv.Atoi(vars["id"])
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "id must be an integer", "")
		return
	}

	ruleset, ok := entities.ParseRuleset(vars["ruleset"])
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "INVALID_INPUT", "unrecognized ruleset", "")
		return
	}

	var cache out.LeaderboardCache
	if err := rc.container.Resolve(&cache); err != nil {
		common.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "leaderboard cache unavailable", "")
		return
	}

	rank, err := cache.Rank(r.Context(), ruleset, playerID)
	if err != nil {
		common.WriteErrorFromDomainError(w, err)
		return
	}

	common.WriteSuccess(w, map[string]interface{}{
		"player_id": playerID,
		"ruleset":   ruleset.String(),
		"rank":      rank,
	})
}
