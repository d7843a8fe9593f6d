package services

import (
	"time"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// Finalizer runs the terminal decay sweep over every rating held by the
// Tracker and recomputes ranks, once the match stream has been fully
// replayed.
type Finalizer struct {
	constants entities.Constants
	tracker   *Tracker
}

// NewFinalizer returns a Finalizer bound to tracker.
func NewFinalizer(constants entities.Constants, tracker *Tracker) *Finalizer {
	return &Finalizer{constants: constants, tracker: tracker}
}

// Finalize evaluates decay for every stored rating against now, commits any
// resulting adjustments, sorts the store, and returns every rating across
// every ruleset, ordered by rating descending with player_id ascending as the
// tie-break.
func (f *Finalizer) Finalize(now time.Time) []entities.PlayerRating {
	decaySystem := NewDecaySystem(f.constants, now)

	for _, rating := range f.tracker.All() {
		updated, applied, _ := decaySystem.Evaluate(rating)
		if applied {
			f.tracker.InsertOrUpdate([]entities.PlayerRating{updated})
		}
	}

	f.tracker.Sort()

	ratings := f.tracker.All()
	sortRatingsDeterministic(ratings)
	return ratings
}
