package league

import (
	"errors"
	"fmt"
	"math"
)

// League format constants for the 36-team league phase plus knockout.
const (
	LeagueSize     = 36
	DirectSlots    = 8  // positions 1-8 go straight to the round of 16
	PlayoffFirst   = 9  // first playoff position
	PlayoffSize    = 16 // positions 9-24
	EliminatedFrom = PlayoffFirst + PlayoffSize
)

var (
	ErrInvalidTeam   = errors.New("invalid team")
	ErrNoTeams       = errors.New("no teams")
	ErrDuplicateTeam = errors.New("duplicate team")
	ErrOddPool       = errors.New("odd number of entrants")
	ErrBracketShape  = errors.New("invalid bracket shape")
	ErrInvalidParams = errors.New("invalid parameters")
)

// Team represents a club entering the competition.
type Team struct {
	Name     string  `json:"name" yaml:"name"`
	Country  string  `json:"country,omitempty" yaml:"country,omitempty"`
	Elo      float64 `json:"elo,omitempty" yaml:"elo,omitempty"`
	Strength float64 `json:"strength" yaml:"strength"`
}

// Validate reports whether the team can enter a simulation.
func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTeam)
	}
	if math.IsNaN(t.Strength) || math.IsInf(t.Strength, 0) {
		return fmt.Errorf("%w: %s has non-finite strength", ErrInvalidTeam, t.Name)
	}
	if t.Strength < 0 || t.Strength > 1 {
		return fmt.Errorf("%w: %s strength %g outside [0,1]", ErrInvalidTeam, t.Name, t.Strength)
	}
	return nil
}

// Standing holds one team's league phase result.
type Standing struct {
	Team
	Performance float64 `json:"performance"`
	Position    int     `json:"position"`
}

// Stage identifies one round of the knockout pipeline.
type Stage int

const (
	Playoff Stage = iota
	RoundOf16
	QuarterFinal
	SemiFinal
	Final
)

// Stages lists the knockout pipeline in play order.
var Stages = []Stage{Playoff, RoundOf16, QuarterFinal, SemiFinal, Final}

func (s Stage) String() string {
	switch s {
	case Playoff:
		return "Playoff"
	case RoundOf16:
		return "R16"
	case QuarterFinal:
		return "QF"
	case SemiFinal:
		return "SF"
	case Final:
		return "Final"
	}
	return "unknown"
}

func (s Stage) MarshalText() ([]byte, error) {
	if s < Playoff || s > Final {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	for _, st := range Stages {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", b)
}

// Match is one resolved knockout tie.
type Match struct {
	Stage  Stage    `json:"stage"`
	A      Standing `json:"team_a"`
	B      Standing `json:"team_b"`
	Winner Standing `json:"winner"`
}

// Loser returns whichever side did not win.
func (m Match) Loser() Standing {
	if m.Winner.Name == m.A.Name {
		return m.B
	}
	return m.A
}

func (m Match) String() string {
	return fmt.Sprintf("%s: (%d) %s vs (%d) %s -> %s",
		m.Stage,
		m.A.Position, m.A.Name,
		m.B.Position, m.B.Name,
		m.Winner.Name,
	)
}

// StageResult holds the winners and match log of one stage, in pairing order.
type StageResult struct {
	Stage   Stage      `json:"stage"`
	Winners []Standing `json:"winners"`
	Matches []Match    `json:"matches"`
}

// KnockoutResult is the full audit trail of the knockout phase.
type KnockoutResult struct {
	Stages   []StageResult `json:"stages"`
	Champion Standing      `json:"champion"`
}

// Stage returns the result for stage s.
func (k *KnockoutResult) Stage(s Stage) (StageResult, bool) {
	for _, sr := range k.Stages {
		if sr.Stage == s {
			return sr, true
		}
	}
	return StageResult{}, false
}

// Matches returns every knockout match in stage and pairing order.
func (k *KnockoutResult) Matches() []Match {
	var all []Match
	for _, sr := range k.Stages {
		all = append(all, sr.Matches...)
	}
	return all
}

// Run is one complete simulated tournament.
type Run struct {
	Standings []Standing      `json:"standings"`
	Knockout  *KnockoutResult `json:"knockout"`
}

// Params controls the match and league models.
type Params struct {
	// Sensitivity scales the strength gap in the logistic win model.
	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity"`
	// NoiseStdDev is the standard deviation of league phase performance noise.
	NoiseStdDev float64 `json:"noise_std_dev" yaml:"noise_std_dev"`
}

// DefaultParams returns the standard model parameters.
func DefaultParams() Params {
	return Params{Sensitivity: 5.0, NoiseStdDev: 0.15}
}

func (p Params) Validate() error {
	if err := checkSensitivity(p.Sensitivity); err != nil {
		return err
	}
	if math.IsNaN(p.NoiseStdDev) || math.IsInf(p.NoiseStdDev, 0) || p.NoiseStdDev < 0 {
		return fmt.Errorf("%w: noise std dev %g", ErrInvalidParams, p.NoiseStdDev)
	}
	return nil
}

// Prediction is one team's estimated probability of an outcome, in percent.
type Prediction struct {
	Team        Team    `json:"team"`
	Probability float64 `json:"probability"`
}
