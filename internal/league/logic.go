// internal/league/logic.go
package league

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// NewRand returns a seeded random stream. One stream is threaded through a
// whole run so a fixed seed reproduces it exactly.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// WinProbability returns the chance that a team of strength a beats a team of
// strength b.
func WinProbability(a, b, sensitivity float64) float64 {
	diff := a - b
	return 1.0 / (1.0 + math.Exp(-sensitivity*diff))
}

// ResolveMatch plays a single-leg tie and returns the winner. It consumes
// exactly one draw from rng.
func ResolveMatch(rng *rand.Rand, a, b Standing, sensitivity float64) (Standing, error) {
	if err := checkSensitivity(sensitivity); err != nil {
		return Standing{}, err
	}
	for _, s := range []Standing{a, b} {
		if math.IsNaN(s.Strength) || math.IsInf(s.Strength, 0) {
			return Standing{}, fmt.Errorf("%w: %s has non-finite strength", ErrInvalidTeam, s.Name)
		}
	}
	p := WinProbability(a.Strength, b.Strength, sensitivity)
	if rng.Float64() < p {
		return a, nil
	}
	return b, nil
}

func checkSensitivity(sensitivity float64) error {
	if math.IsNaN(sensitivity) || math.IsInf(sensitivity, 0) || sensitivity < 0 {
		return fmt.Errorf("%w: sensitivity %g", ErrInvalidParams, sensitivity)
	}
	return nil
}

// SimulateLeague samples a season performance for every team and ranks them.
// Noise is drawn once per team in input order; teams with equal performance
// keep their input order.
func SimulateLeague(rng *rand.Rand, teams []Team, noiseStdDev float64) ([]Standing, error) {
	// 1) validate input
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}
	if math.IsNaN(noiseStdDev) || math.IsInf(noiseStdDev, 0) || noiseStdDev < 0 {
		return nil, fmt.Errorf("%w: noise std dev %g", ErrInvalidParams, noiseStdDev)
	}
	seen := make(map[string]bool, len(teams))
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Name)
		}
		seen[t.Name] = true
	}

	// 2) sample performances
	noise := distuv.Normal{Mu: 0, Sigma: noiseStdDev, Src: rng}
	table := make([]Standing, len(teams))
	for i, t := range teams {
		table[i] = Standing{Team: t, Performance: t.Strength + noise.Rand()}
	}

	// 3) rank
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Performance > table[j].Performance
	})
	for i := range table {
		table[i].Position = i + 1
	}
	return table, nil
}

// Split divides standings into direct qualifiers (1-8), playoff entrants
// (9-24) and eliminated teams (25+), each in position order.
func Split(standings []Standing) (direct, playoff, eliminated []Standing) {
	sorted := byPosition(standings)
	for _, s := range sorted {
		switch {
		case s.Position <= DirectSlots:
			direct = append(direct, s)
		case s.Position < EliminatedFrom:
			playoff = append(playoff, s)
		default:
			eliminated = append(eliminated, s)
		}
	}
	return direct, playoff, eliminated
}

func byPosition(standings []Standing) []Standing {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	return sorted
}
