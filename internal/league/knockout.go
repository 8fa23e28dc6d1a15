package league

import (
	"fmt"
	"math/rand/v2"
)

// SimulateKnockout plays the playoff, round of 16, quarterfinals, semifinals
// and final from a 36-team league table. Each stage's winners are the only
// input to the next stage.
func SimulateKnockout(rng *rand.Rand, standings []Standing, sensitivity float64) (*KnockoutResult, error) {
	if err := checkSensitivity(sensitivity); err != nil {
		return nil, err
	}
	if err := checkTable(standings); err != nil {
		return nil, err
	}
	direct, playoff, _ := Split(standings)

	type step struct {
		stage Stage
		rule  func(prev []Standing) (PairingRule, []Standing)
	}
	steps := []step{
		{Playoff, func([]Standing) (PairingRule, []Standing) {
			return FixedCross{First: PlayoffFirst, Size: PlayoffSize}, playoff
		}},
		{RoundOf16, func(prev []Standing) (PairingRule, []Standing) {
			return AnchoredDraw{Anchors: direct}, prev
		}},
		{QuarterFinal, randomFrom},
		{SemiFinal, randomFrom},
		{Final, randomFrom},
	}

	res := &KnockoutResult{Stages: make([]StageResult, 0, len(steps))}
	var winners []Standing
	for _, st := range steps {
		rule, entrants := st.rule(winners)
		sr, err := PlayStage(rng, st.stage, rule, entrants, sensitivity)
		if err != nil {
			return nil, err
		}
		res.Stages = append(res.Stages, sr)
		winners = sr.Winners
	}

	if len(winners) != 1 {
		return nil, fmt.Errorf("%w: final produced %d winners", ErrBracketShape, len(winners))
	}
	res.Champion = winners[0]
	return res, nil
}

func randomFrom(prev []Standing) (PairingRule, []Standing) {
	return RandomDraw{}, prev
}

// checkTable verifies a full league table with positions 1..36 and unique
// team names.
func checkTable(standings []Standing) error {
	if len(standings) != LeagueSize {
		return fmt.Errorf("%w: knockout needs %d teams, got %d", ErrBracketShape, LeagueSize, len(standings))
	}
	seen := make([]bool, LeagueSize+1)
	names := make(map[string]bool, LeagueSize)
	for _, s := range standings {
		if s.Position < 1 || s.Position > LeagueSize || seen[s.Position] {
			return fmt.Errorf("%w: positions are not a contiguous 1..%d range (saw %d)", ErrBracketShape, LeagueSize, s.Position)
		}
		if names[s.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateTeam, s.Name)
		}
		seen[s.Position] = true
		names[s.Name] = true
	}
	return nil
}

// Simulate runs the league phase and the knockout on one random stream.
func Simulate(rng *rand.Rand, teams []Team, params Params) (*Run, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	standings, err := SimulateLeague(rng, teams, params.NoiseStdDev)
	if err != nil {
		return nil, fmt.Errorf("league phase: %w", err)
	}
	ko, err := SimulateKnockout(rng, standings, params.Sensitivity)
	if err != nil {
		return nil, fmt.Errorf("knockout: %w", err)
	}
	return &Run{Standings: standings, Knockout: ko}, nil
}
