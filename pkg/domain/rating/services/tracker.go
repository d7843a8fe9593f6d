package services

import (
	"sort"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// Tracker is the authoritative, single-threaded store of current
// PlayerRatings. It owns the rating store, the per-key adjustment journal
// (folded into each PlayerRating's Adjustments slice) and a country index.
// The country index holds only (player_id, ruleset) keys into the primary
// store, never back-pointers from PlayerRating into the index.
type Tracker struct {
	ratings        map[entities.Key]entities.PlayerRating
	countryIndex   map[string]map[entities.Key]struct{}
	countryMapping map[int]string
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ratings:        make(map[entities.Key]entities.PlayerRating),
		countryIndex:   make(map[string]map[entities.Key]struct{}),
		countryMapping: make(map[int]string),
	}
}

// SetCountryMapping installs the process-wide player_id -> country table.
func (t *Tracker) SetCountryMapping(mapping map[int]string) {
	t.countryMapping = mapping
}

// CountryFor returns the installed country code for a player, or "" if
// unmapped.
func (t *Tracker) CountryFor(playerID int) string {
	return t.countryMapping[playerID]
}

// InsertOrUpdate overwrites the stored entry for each rating's key. Callers
// are responsible for having already appended any new adjustments to the
// rating before calling this.
func (t *Tracker) InsertOrUpdate(ratings []entities.PlayerRating) {
	for _, r := range ratings {
		key := r.Key()

		if old, existed := t.ratings[key]; existed && old.Country != "" && r.Country == "" {
			r.Country = old.Country
		}

		t.unindexCountry(key)
		t.ratings[key] = r
		if r.Country != "" {
			t.indexCountry(r.Country, key)
		}
	}
}

func (t *Tracker) indexCountry(country string, key entities.Key) {
	set, ok := t.countryIndex[country]
	if !ok {
		set = make(map[entities.Key]struct{})
		t.countryIndex[country] = set
	}
	set[key] = struct{}{}
}

func (t *Tracker) unindexCountry(key entities.Key) {
	for country, set := range t.countryIndex {
		if _, ok := set[key]; ok {
			delete(set, key)
			if len(set) == 0 {
				delete(t.countryIndex, country)
			}
			return
		}
	}
}

// Get returns the stored PlayerRating for (playerID, ruleset), if any.
func (t *Tracker) Get(playerID int, ruleset entities.Ruleset) (entities.PlayerRating, bool) {
	r, ok := t.ratings[entities.Key{PlayerID: playerID, Ruleset: ruleset}]
	return r, ok
}

// GetLeaderboard returns every stored rating for a ruleset, sorted by rating
// descending with player_id ascending as the deterministic tie-break.
func (t *Tracker) GetLeaderboard(ruleset entities.Ruleset) []entities.PlayerRating {
	out := make([]entities.PlayerRating, 0)
	for key, r := range t.ratings {
		if key.Ruleset == ruleset {
			out = append(out, r)
		}
	}
	sortRatingsDeterministic(out)
	return out
}

// All returns every stored rating across every ruleset.
func (t *Tracker) All() []entities.PlayerRating {
	out := make([]entities.PlayerRating, 0, len(t.ratings))
	for _, r := range t.ratings {
		out = append(out, r)
	}
	return out
}

func sortRatingsDeterministic(ratings []entities.PlayerRating) {
	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].Rating != ratings[j].Rating {
			return ratings[i].Rating > ratings[j].Rating
		}
		return ratings[i].PlayerID < ratings[j].PlayerID
	})
}

// percentile computes rank as a 0..1 fraction: (N - rank) / N (see
// DESIGN.md for why this scale was chosen over a 0..100 one).
func percentile(rank, total int) float64 {
	if total <= 0 || rank < 1 {
		return 0
	}
	return float64(total-rank) / float64(total)
}

// Sort recomputes global_rank (dense, 1-based, per ruleset) and
// country_rank (dense, 1-based, per country+ruleset) for every stored
// rating, and derives each one's percentile. It is a fixed point when the
// store is unchanged.
func (t *Tracker) Sort() {
	for _, ruleset := range entities.RankedRulesets {
		board := t.GetLeaderboard(ruleset)
		total := len(board)
		for rank, r := range board {
			key := r.Key()
			stored := t.ratings[key]
			stored.GlobalRank = rank + 1
			stored.Percentile = percentile(rank+1, total)
			t.ratings[key] = stored
		}
	}

	for country, keys := range t.countryIndex {
		byRuleset := make(map[entities.Ruleset][]entities.PlayerRating)
		for key := range keys {
			byRuleset[key.Ruleset] = append(byRuleset[key.Ruleset], t.ratings[key])
		}

		for _, board := range byRuleset {
			sortRatingsDeterministic(board)
			for rank, r := range board {
				key := r.Key()
				stored := t.ratings[key]
				stored.CountryRank = rank + 1
				t.ratings[key] = stored
			}
		}
		_ = country
	}
}
