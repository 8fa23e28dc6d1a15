package league

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Outcome counts how often one team reached each point of the competition.
type Outcome struct {
	Team     Team          `json:"team"`
	Direct   int           `json:"direct"`  // finished 1-8
	Reached  map[Stage]int `json:"reached"` // appeared in a stage
	Champion int           `json:"champion"`
}

// Distribution aggregates many simulated tournaments.
type Distribution struct {
	Runs     int
	outcomes []*Outcome
	index    map[string]*Outcome
}

// Estimate simulates runs tournaments in sequence on rng and tallies the
// outcome of every team.
func Estimate(rng *rand.Rand, teams []Team, params Params, runs int) (*Distribution, error) {
	if runs <= 0 {
		return nil, fmt.Errorf("%w: runs must be positive, got %d", ErrInvalidParams, runs)
	}
	d := &Distribution{
		Runs:     runs,
		outcomes: make([]*Outcome, 0, len(teams)),
		index:    make(map[string]*Outcome, len(teams)),
	}
	for _, t := range teams {
		if _, dup := d.index[t.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, t.Name)
		}
		o := &Outcome{Team: t, Reached: make(map[Stage]int, len(Stages))}
		d.outcomes = append(d.outcomes, o)
		d.index[t.Name] = o
	}

	for i := 0; i < runs; i++ {
		run, err := Simulate(rng, teams, params)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		d.add(run)
	}
	return d, nil
}

func (d *Distribution) add(run *Run) {
	for _, s := range run.Standings {
		if s.Position <= DirectSlots {
			d.index[s.Name].Direct++
		}
	}
	for _, sr := range run.Knockout.Stages {
		for _, m := range sr.Matches {
			d.index[m.A.Name].Reached[sr.Stage]++
			d.index[m.B.Name].Reached[sr.Stage]++
		}
	}
	d.index[run.Knockout.Champion.Name].Champion++
}

// Outcomes returns every team's tallies in input order.
func (d *Distribution) Outcomes() []Outcome {
	out := make([]Outcome, len(d.outcomes))
	for i, o := range d.outcomes {
		out[i] = *o
	}
	return out
}

// Outcome returns the tallies for one team.
func (d *Distribution) Outcome(name string) (Outcome, bool) {
	o, ok := d.index[name]
	if !ok {
		return Outcome{}, false
	}
	return *o, true
}

// Predictions returns champion probabilities, best first.
func (d *Distribution) Predictions() []Prediction {
	return d.predict(func(o *Outcome) int { return o.Champion })
}

// StagePredictions returns the probability of each team playing in stage.
func (d *Distribution) StagePredictions(stage Stage) []Prediction {
	return d.predict(func(o *Outcome) int { return o.Reached[stage] })
}

func (d *Distribution) predict(count func(*Outcome) int) []Prediction {
	preds := make([]Prediction, 0, len(d.outcomes))
	for _, o := range d.outcomes {
		p := float64(count(o)) / float64(d.Runs) * 100.0
		preds = append(preds, Prediction{Team: o.Team, Probability: math.Round(p*100) / 100})
	}
	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i].Probability != preds[j].Probability {
			return preds[i].Probability > preds[j].Probability
		}
		return preds[i].Team.Name < preds[j].Team.Name
	})
	return preds
}

// ChampionshipOdds estimates each team's chance of winning the final.
func ChampionshipOdds(rng *rand.Rand, teams []Team, params Params, runs int) ([]Prediction, error) {
	d, err := Estimate(rng, teams, params, runs)
	if err != nil {
		return nil, err
	}
	return d.Predictions(), nil
}
