package services

import (
	"math"

	entities "github.com/osu-tournament-rating/rating-engine/pkg/domain/rating/entities"
)

// Rating is a single competitor's (mu, sigma) pair, the unit the
// Plackett-Luce primitive operates on.
type Rating struct {
	Mu    float64
	Sigma float64
}

// PlackettLuce is a multi-competitor Bayesian skill update model. It treats
// its input as a pure function: a list of teams, each a multiset of
// Ratings, and a parallel list of placements (1 = best, ties allowed),
// producing updated Ratings in the same shape.
//
// This is the generalized Bradley-Terry / Plackett-Luce model described in
// Weng & Lin (2011), with a fixed gamma override of 1/k (k = team count).
type PlackettLuce struct {
	beta  float64
	kappa float64
}

// NewPlackettLuce returns a model calibrated with the given constants.
func NewPlackettLuce(constants entities.Constants) *PlackettLuce {
	return &PlackettLuce{beta: constants.Beta, kappa: constants.Kappa}
}

type teamState struct {
	ratings []Rating
	mu      float64
	sigmaSq float64
	rank    int
}

// Rate runs one Plackett-Luce update. teams[i] is rated against placements[i]
// (lower is better, ties share a placement value). The returned slice has
// exactly the same shape as teams.
func (m *PlackettLuce) Rate(teams [][]Rating, placements []int) [][]Rating {
	n := len(teams)
	states := make([]teamState, n)
	for i, team := range teams {
		mu, sigmaSq := 0.0, 0.0
		for _, r := range team {
			mu += r.Mu
			sigmaSq += r.Sigma * r.Sigma
		}
		states[i] = teamState{ratings: team, mu: mu, sigmaSq: sigmaSq, rank: placements[i]}
	}

	c := 0.0
	for _, s := range states {
		c += s.sigmaSq + m.beta*m.beta
	}
	c = math.Sqrt(c)

	// sumQ[i] is the sum of exp(mu_q/c) over every team ranked the same as
	// or worse than team i (higher placement number = worse).
	sumQ := make([]float64, n)
	for i := range states {
		total := 0.0
		for q := range states {
			if states[q].rank >= states[i].rank {
				total += math.Exp(states[q].mu / c)
			}
		}
		sumQ[i] = total
	}

	// A[i] is the number of teams tied with team i's placement.
	a := make([]int, n)
	for i := range states {
		count := 0
		for q := range states {
			if states[q].rank == states[i].rank {
				count++
			}
		}
		a[i] = count
	}

	gamma := 1.0 / float64(n)

	result := make([][]Rating, n)
	for i, s := range states {
		muIOverC := math.Exp(s.mu / c)

		omega := 0.0
		delta := 0.0

		for q := range states {
			// Team q only participates in i's sums when q finished the
			// same place or better (lower/equal rank number).
			if states[q].rank > s.rank {
				continue
			}

			qShare := muIOverC / sumQ[q]

			indicator := 0.0
			if q == i {
				indicator = 1.0
			}

			omega += (indicator - qShare) / float64(a[q])
			delta += qShare * (1 - qShare) / float64(a[q])
		}

		teamOmega := (s.sigmaSq / c) * omega
		teamDelta := gamma * (s.sigmaSq / (c * c)) * delta

		updated := make([]Rating, len(s.ratings))
		for j, r := range s.ratings {
			share := (r.Sigma * r.Sigma) / s.sigmaSq

			newMu := r.Mu + share*teamOmega
			newSigma := r.Sigma * math.Sqrt(math.Max(1-share*teamDelta, m.kappa))

			updated[j] = Rating{Mu: newMu, Sigma: newSigma}
		}
		result[i] = updated
	}

	return result
}
