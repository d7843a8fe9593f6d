package entities

import (
	"time"

	common "github.com/osu-tournament-rating/rating-engine/pkg/domain"
)

// AdjustmentKind is the closed set of events that can mutate a PlayerRating.
type AdjustmentKind string

const (
	Initial         AdjustmentKind = "Initial"
	MatchAdjustment AdjustmentKind = "Match"
	Decay           AdjustmentKind = "Decay"
)

// RatingAdjustment is one immutable, append-only entry in a player's rating
// journal. For i>0 in a PlayerRating's Adjustments slice,
// Adjustments[i].RatingBefore == Adjustments[i-1].RatingAfter (and likewise
// for volatility); timestamps are non-decreasing.
type RatingAdjustment struct {
	Kind    AdjustmentKind `json:"kind" bson:"kind"`
	MatchID *int           `json:"match_id,omitempty" bson:"match_id,omitempty"`

	RatingBefore float64 `json:"rating_before" bson:"rating_before"`
	RatingAfter  float64 `json:"rating_after" bson:"rating_after"`

	VolatilityBefore float64 `json:"volatility_before" bson:"volatility_before"`
	VolatilityAfter  float64 `json:"volatility_after" bson:"volatility_after"`

	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// PlayerRating is the canonical per-(player, ruleset) rating record. It is
// created once by the Seeder and from then on mutated only by the Tracker.
type PlayerRating struct {
	common.BaseEntity `json:",inline" bson:",inline"`

	PlayerID int     `json:"player_id" bson:"player_id"`
	Ruleset  Ruleset `json:"ruleset" bson:"ruleset"`
	Country  string  `json:"country" bson:"country"`

	Rating     float64 `json:"rating" bson:"rating"`
	Volatility float64 `json:"volatility" bson:"volatility"`

	Percentile  float64 `json:"percentile" bson:"percentile"`
	GlobalRank  int     `json:"global_rank" bson:"global_rank"`
	CountryRank int     `json:"country_rank" bson:"country_rank"`

	Adjustments []RatingAdjustment `json:"adjustments" bson:"adjustments"`
}

// NewPlayerRating seeds a fresh PlayerRating carrying exactly one Initial
// adjustment.
func NewPlayerRating(owner common.ResourceOwner, playerID int, ruleset Ruleset, country string, mu, sigma float64, timestamp time.Time) PlayerRating {
	return PlayerRating{
		BaseEntity: common.NewUnrestrictedEntity(owner),
		PlayerID:   playerID,
		Ruleset:    ruleset,
		Country:    country,
		Rating:     mu,
		Volatility: sigma,
		Adjustments: []RatingAdjustment{
			{
				Kind:             Initial,
				RatingBefore:     0,
				RatingAfter:      mu,
				VolatilityBefore: 0,
				VolatilityAfter:  sigma,
				Timestamp:        timestamp,
			},
		},
	}
}

// LastAdjustment returns the most recent entry in the adjustment journal.
// Callers must only invoke this when Adjustments is non-empty (guaranteed
// for any PlayerRating produced by NewPlayerRating).
func (p PlayerRating) LastAdjustment() RatingAdjustment {
	return p.Adjustments[len(p.Adjustments)-1]
}

// PeakRatingAfter returns the maximum RatingAfter across the player's
// adjustment history, used by the Decay System's floor calculation.
func (p PlayerRating) PeakRatingAfter() float64 {
	peak := 0.0
	for _, a := range p.Adjustments {
		if a.RatingAfter > peak {
			peak = a.RatingAfter
		}
	}
	return peak
}

// Key identifies a PlayerRating by (player_id, ruleset), the Tracker's
// primary index.
type Key struct {
	PlayerID int
	Ruleset  Ruleset
}

func (p PlayerRating) Key() Key {
	return Key{PlayerID: p.PlayerID, Ruleset: p.Ruleset}
}
