package entities

// Ruleset is a closed enum of the game modes the rating engine tracks
// independently. ManiaOther never appears as a ranked leaderboard entry; it
// exists only as a rank-history source for Mania4k/Mania7k seeding.
type Ruleset int

const (
	Osu Ruleset = iota
	Taiko
	Catch
	Mania4k
	Mania7k
	ManiaOther
)

func (r Ruleset) String() string {
	switch r {
	case Osu:
		return "osu"
	case Taiko:
		return "taiko"
	case Catch:
		return "catch"
	case Mania4k:
		return "mania4k"
	case Mania7k:
		return "mania7k"
	case ManiaOther:
		return "mania_other"
	default:
		return "unknown"
	}
}

// RankedRulesets is the fixed dispatch table the Tracker sorts over.
// ManiaOther is deliberately excluded: it is seed-only.
var RankedRulesets = []Ruleset{Osu, Taiko, Catch, Mania4k, Mania7k}

// rulesetSeedStats holds the per-ruleset (mean, stddev) constants used by the
// Initial-Rating Seeder's log-rank transform. Table-driven rather than
// per-ruleset subclassing.
type rulesetSeedStats struct {
	mean   float64
	stddev float64
}

var seedStatsByRuleset = map[Ruleset]rulesetSeedStats{
	Osu:        {mean: 9.91, stddev: 1.59},
	Taiko:      {mean: 7.59, stddev: 1.56},
	Catch:      {mean: 6.75, stddev: 1.54},
	Mania4k:    {mean: 8.18, stddev: 1.55},
	Mania7k:    {mean: 8.18, stddev: 1.55},
	ManiaOther: {mean: 8.18, stddev: 1.55},
}

// SeedStats returns the (mean, stddev) pair used to convert a global rank
// into a log-normal z-score for this ruleset.
func (r Ruleset) SeedStats() (mean float64, stddev float64) {
	s := seedStatsByRuleset[r]
	return s.mean, s.stddev
}

// IsMania4kOr7k reports whether this ruleset should prefer a ManiaOther rank
// history entry when seeding.
func (r Ruleset) IsMania4kOr7k() bool {
	return r == Mania4k || r == Mania7k
}

// ParseRuleset parses the String() form back into a Ruleset, for REST query
// params and CLI flags. ok is false for anything not produced by String().
func ParseRuleset(s string) (r Ruleset, ok bool) {
	switch s {
	case "osu":
		return Osu, true
	case "taiko":
		return Taiko, true
	case "catch":
		return Catch, true
	case "mania4k":
		return Mania4k, true
	case "mania7k":
		return Mania7k, true
	case "mania_other":
		return ManiaOther, true
	default:
		return 0, false
	}
}
