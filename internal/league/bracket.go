package league

import (
	"fmt"
	"math/rand/v2"
)

// Pairing is one tie before it is played.
type Pairing struct {
	A, B Standing
}

// PairingRule turns a pool of entrants into an ordered list of ties.
// The set of rules is closed: FixedCross, RandomDraw and AnchoredDraw.
type PairingRule interface {
	pair(rng *rand.Rand, entrants []Standing) ([]Pairing, error)
}

// FixedCross pairs league positions First+i with First+Size-1-i, so the best
// ranked team of the pool meets the worst ranked one. It draws nothing from
// the random stream.
type FixedCross struct {
	First int
	Size  int
}

func (r FixedCross) pair(_ *rand.Rand, entrants []Standing) ([]Pairing, error) {
	if r.Size <= 0 || r.First <= 0 {
		return nil, fmt.Errorf("%w: fixed cross pool %d+%d", ErrBracketShape, r.First, r.Size)
	}
	if r.Size%2 != 0 {
		return nil, fmt.Errorf("%w: fixed cross pool of %d", ErrOddPool, r.Size)
	}
	byPos := make(map[int]Standing, len(entrants))
	for _, e := range entrants {
		byPos[e.Position] = e
	}
	last := r.First + r.Size - 1
	for p := r.First; p <= last; p++ {
		if _, ok := byPos[p]; !ok {
			return nil, fmt.Errorf("%w: position %d missing from pool", ErrBracketShape, p)
		}
	}

	pairs := make([]Pairing, 0, r.Size/2)
	for i := 0; i < r.Size/2; i++ {
		pairs = append(pairs, Pairing{A: byPos[r.First+i], B: byPos[last-i]})
	}
	return pairs, nil
}

// RandomDraw permutes the pool uniformly and pairs consecutive entrants.
type RandomDraw struct{}

func (RandomDraw) pair(rng *rand.Rand, entrants []Standing) ([]Pairing, error) {
	n := len(entrants)
	if n == 0 {
		return nil, ErrNoTeams
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrOddPool, n)
	}
	drawn := permute(rng, entrants)

	pairs := make([]Pairing, 0, n/2)
	for i := 0; i < n; i += 2 {
		pairs = append(pairs, Pairing{A: drawn[i], B: drawn[i+1]})
	}
	return pairs, nil
}

// AnchoredDraw keeps Anchors in league position order and draws a random
// opponent for each from the pool. Only the opponents are shuffled.
type AnchoredDraw struct {
	Anchors []Standing
}

func (r AnchoredDraw) pair(rng *rand.Rand, entrants []Standing) ([]Pairing, error) {
	if len(r.Anchors) == 0 {
		return nil, ErrNoTeams
	}
	if len(r.Anchors) != len(entrants) {
		return nil, fmt.Errorf("%w: %d anchors for %d opponents", ErrBracketShape, len(r.Anchors), len(entrants))
	}
	anchors := byPosition(r.Anchors)
	opponents := permute(rng, entrants)

	pairs := make([]Pairing, len(anchors))
	for i := range anchors {
		pairs[i] = Pairing{A: anchors[i], B: opponents[i]}
	}
	return pairs, nil
}

// permute materializes a new slice ordered by a random permutation of indices.
func permute(rng *rand.Rand, entrants []Standing) []Standing {
	perm := rng.Perm(len(entrants))
	out := make([]Standing, len(entrants))
	for i, idx := range perm {
		out[i] = entrants[idx]
	}
	return out
}

// PlayStage pairs entrants with rule and resolves every tie in pairing order.
func PlayStage(rng *rand.Rand, stage Stage, rule PairingRule, entrants []Standing, sensitivity float64) (StageResult, error) {
	pairs, err := rule.pair(rng, entrants)
	if err != nil {
		return StageResult{}, fmt.Errorf("pairing %s: %w", stage, err)
	}

	res := StageResult{
		Stage:   stage,
		Winners: make([]Standing, 0, len(pairs)),
		Matches: make([]Match, 0, len(pairs)),
	}
	for _, p := range pairs {
		winner, err := ResolveMatch(rng, p.A, p.B, sensitivity)
		if err != nil {
			return StageResult{}, fmt.Errorf("playing %s: %w", stage, err)
		}
		res.Winners = append(res.Winners, winner)
		res.Matches = append(res.Matches, Match{Stage: stage, A: p.A, B: p.B, Winner: winner})
	}
	return res, nil
}
