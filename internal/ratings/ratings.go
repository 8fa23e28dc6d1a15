// Package ratings turns raw club ratings into normalized league teams.
package ratings

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/loirouge414/Who-is-UCL-winner/internal/clubelo"
	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

// Entry is one competition participant before ratings are attached.
type Entry struct {
	Team       string `json:"team" yaml:"team"`
	RatingName string `json:"elo_club_name" yaml:"elo_club_name"`
	Country    string `json:"country" yaml:"country"`
}

// MergeOptions controls how roster names are matched to rating rows.
type MergeOptions struct {
	// Fuzzy falls back to fuzzy name matching when no exact match exists.
	Fuzzy  bool
	Logger *slog.Logger
}

// Merge attaches an Elo rating to every roster entry. Entries without a
// rating are returned by name in unmatched and are not given a default.
func Merge(roster []Entry, snapshot []clubelo.Rating, opts MergeOptions) (teams []league.Team, unmatched []string) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	byName := make(map[string]clubelo.Rating, len(snapshot))
	names := make([]string, 0, len(snapshot))
	for _, r := range snapshot {
		key := strings.ToLower(r.Club)
		if _, dup := byName[key]; dup {
			continue
		}
		byName[key] = r
		names = append(names, r.Club)
	}

	for _, e := range roster {
		lookup := e.RatingName
		if lookup == "" {
			lookup = e.Team
		}
		r, ok := byName[strings.ToLower(lookup)]
		if !ok && opts.Fuzzy {
			if club, found := Closest(lookup, names); found {
				logger.Warn("fuzzy rating match", "team", e.Team, "lookup", lookup, "club", club)
				r, ok = byName[strings.ToLower(club)]
			}
		}
		if !ok {
			logger.Warn("no rating for team", "team", e.Team, "lookup", lookup)
			unmatched = append(unmatched, e.Team)
			continue
		}
		country := e.Country
		if country == "" {
			country = r.Country
		}
		teams = append(teams, league.Team{Name: e.Team, Country: country, Elo: r.Elo})
	}
	return teams, unmatched
}

// Closest returns the best ranked fuzzy match, or false when there is none
// or the best rank is shared.
func Closest(source string, targets []string) (string, bool) {
	ranks := fuzzy.RankFindNormalizedFold(source, targets)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return "", false
	}
	return ranks[0].Target, true
}

// Normalize drops teams without a finite Elo and min-max scales the rest into
// Strength in [0,1]. When every Elo is equal each team gets 0.5.
func Normalize(teams []league.Team) []league.Team {
	rated := make([]league.Team, 0, len(teams))
	for _, t := range teams {
		if math.IsNaN(t.Elo) || math.IsInf(t.Elo, 0) {
			continue
		}
		rated = append(rated, t)
	}
	if len(rated) == 0 {
		return rated
	}

	lo, hi := rated[0].Elo, rated[0].Elo
	for _, t := range rated[1:] {
		lo = math.Min(lo, t.Elo)
		hi = math.Max(hi, t.Elo)
	}
	for i := range rated {
		if hi == lo {
			rated[i].Strength = 0.5
			continue
		}
		rated[i].Strength = (rated[i].Elo - lo) / (hi - lo)
	}
	return rated
}
