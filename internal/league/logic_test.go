package league

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evenlySpaced returns n teams Team1..Teamn with strengths spread over [0,1].
func evenlySpaced(n int) []Team {
	teams := make([]Team, n)
	for i := range teams {
		strength := 0.0
		if n > 1 {
			strength = float64(i) / float64(n-1)
		}
		teams[i] = Team{Name: fmt.Sprintf("Team%d", i+1), Strength: strength}
	}
	return teams
}

func standing(name string, strength float64, pos int) Standing {
	return Standing{Team: Team{Name: name, Strength: strength}, Performance: strength, Position: pos}
}

func TestWinProbability_Symmetric(t *testing.T) {
	values := []float64{0, 0.1, 0.25, 0.5, 0.73, 0.9, 1}
	for _, a := range values {
		for _, b := range values {
			sum := WinProbability(a, b, 5.0) + WinProbability(b, a, 5.0)
			assert.InDelta(t, 1.0, sum, 1e-12, "a=%g b=%g", a, b)
		}
	}
}

func TestWinProbability_EqualStrength(t *testing.T) {
	for _, a := range []float64{0, 0.3, 1} {
		for _, k := range []float64{0, 1, 5, 100} {
			assert.Equal(t, 0.5, WinProbability(a, a, k))
		}
	}
}

func TestWinProbability_Monotonic(t *testing.T) {
	assert.Greater(t, WinProbability(0.8, 0.2, 5), WinProbability(0.6, 0.4, 5))
	assert.Greater(t, WinProbability(0.6, 0.4, 10), WinProbability(0.6, 0.4, 5))
	assert.InDelta(t, 1.0, WinProbability(1, 0, 1000), 1e-12)
	assert.InDelta(t, 0.0, WinProbability(0, 1, 1000), 1e-12)
}

func TestResolveMatch_SaturatedProbability(t *testing.T) {
	rng := NewRand(1)
	strong := standing("Strong", 1, 1)
	weak := standing("Weak", 0, 2)
	for i := 0; i < 100; i++ {
		w, err := ResolveMatch(rng, strong, weak, 1e6)
		require.NoError(t, err)
		assert.Equal(t, "Strong", w.Name)
	}
}

func TestResolveMatch_ConsumesOneDraw(t *testing.T) {
	a := NewRand(7)
	b := NewRand(7)

	_, err := ResolveMatch(a, standing("A", 0.4, 1), standing("B", 0.6, 2), 5)
	require.NoError(t, err)
	b.Float64()

	assert.Equal(t, b.Uint64(), a.Uint64())
}

func TestResolveMatch_NonFiniteStrength(t *testing.T) {
	rng := NewRand(1)
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := ResolveMatch(rng, standing("A", bad, 1), standing("B", 0.5, 2), 5)
		assert.ErrorIs(t, err, ErrInvalidTeam)
	}
}

func TestResolveMatch_NonFiniteSensitivity(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		rng := NewRand(1)
		_, err := ResolveMatch(rng, standing("A", 0.5, 1), standing("B", 0.5, 2), bad)
		assert.ErrorIs(t, err, ErrInvalidParams, "sensitivity %g", bad)

		// rejected before any draw
		assert.Equal(t, NewRand(1).Uint64(), rng.Uint64())
	}
}

func TestSimulateLeague_PositionsContiguous(t *testing.T) {
	rng := NewRand(42)
	for n := 1; n <= 40; n++ {
		table, err := SimulateLeague(rng, evenlySpaced(n), 0.15)
		require.NoError(t, err)
		require.Len(t, table, n)

		seen := make(map[int]bool, n)
		for i, s := range table {
			assert.Equal(t, i+1, s.Position)
			seen[s.Position] = true
			if i > 0 {
				assert.GreaterOrEqual(t, table[i-1].Performance, s.Performance)
			}
		}
		assert.Len(t, seen, n)
	}
}

func TestSimulateLeague_ZeroNoiseOrdersByStrength(t *testing.T) {
	table, err := SimulateLeague(NewRand(3), evenlySpaced(36), 0)
	require.NoError(t, err)

	for i, s := range table {
		assert.Equal(t, fmt.Sprintf("Team%d", 36-i), s.Name)
		assert.Equal(t, s.Strength, s.Performance)
	}
}

func TestSimulateLeague_TiesKeepInputOrder(t *testing.T) {
	teams := []Team{
		{Name: "Low", Strength: 0.2},
		{Name: "First", Strength: 0.5},
		{Name: "Second", Strength: 0.5},
		{Name: "Third", Strength: 0.5},
	}
	table, err := SimulateLeague(NewRand(9), teams, 0)
	require.NoError(t, err)

	names := make([]string, len(table))
	for i, s := range table {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"First", "Second", "Third", "Low"}, names)
}

func TestSimulateLeague_Reproducible(t *testing.T) {
	a, err := SimulateLeague(NewRand(11), evenlySpaced(36), 0.15)
	require.NoError(t, err)
	b, err := SimulateLeague(NewRand(11), evenlySpaced(36), 0.15)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulateLeague_InvalidInput(t *testing.T) {
	rng := NewRand(1)

	_, err := SimulateLeague(rng, nil, 0.15)
	assert.ErrorIs(t, err, ErrNoTeams)

	_, err = SimulateLeague(rng, []Team{{Name: "A", Strength: math.NaN()}}, 0.15)
	assert.ErrorIs(t, err, ErrInvalidTeam)

	_, err = SimulateLeague(rng, []Team{{Name: "", Strength: 0.5}}, 0.15)
	assert.ErrorIs(t, err, ErrInvalidTeam)

	_, err = SimulateLeague(rng, []Team{{Name: "A", Strength: 1.5}}, 0.15)
	assert.ErrorIs(t, err, ErrInvalidTeam)

	_, err = SimulateLeague(rng, []Team{{Name: "A", Strength: 0.5}, {Name: "A", Strength: 0.2}}, 0.15)
	assert.ErrorIs(t, err, ErrDuplicateTeam)

	_, err = SimulateLeague(rng, evenlySpaced(4), -1)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSplit(t *testing.T) {
	table, err := SimulateLeague(NewRand(5), evenlySpaced(36), 0.15)
	require.NoError(t, err)

	direct, playoff, eliminated := Split(table)
	require.Len(t, direct, 8)
	require.Len(t, playoff, 16)
	require.Len(t, eliminated, 12)
	assert.Equal(t, 1, direct[0].Position)
	assert.Equal(t, 9, playoff[0].Position)
	assert.Equal(t, 24, playoff[15].Position)
	assert.Equal(t, 25, eliminated[0].Position)
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.ErrorIs(t, Params{Sensitivity: -1}.Validate(), ErrInvalidParams)
	assert.ErrorIs(t, Params{Sensitivity: 5, NoiseStdDev: math.NaN()}.Validate(), ErrInvalidParams)
}

func TestStage_Text(t *testing.T) {
	for _, s := range Stages {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back Stage
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	assert.Equal(t, "R16", RoundOf16.String())
	var s Stage
	assert.Error(t, s.UnmarshalText([]byte("R32")))
}
