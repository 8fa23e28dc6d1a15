package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/gorilla/mux"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
	"github.com/loirouge414/Who-is-UCL-winner/internal/ratings"
)

// SimulateResponse is one complete tournament.
type SimulateResponse struct {
	Seed uint64 `json:"seed"`
	*league.Run
}

// TeamOdds is one team's estimated outcome, in percent.
type TeamOdds struct {
	Team     string             `json:"team"`
	Direct   float64            `json:"direct"`
	Reached  map[string]float64 `json:"reached"`
	Champion float64            `json:"champion"`
}

// OddsResponse is the result of a Monte Carlo estimate.
type OddsResponse struct {
	Runs  int        `json:"runs"`
	Seed  uint64     `json:"seed"`
	Teams []TeamOdds `json:"teams"`
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.teams.GetTeams()
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	teams, err := s.teams.GetTeams()
	if err != nil {
		s.fail(w, err)
		return
	}
	names, err := resolveNames([]string{mux.Vars(r)["name"]}, teams)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	for _, t := range teams {
		if t.Name == names[0] {
			s.writeJSON(w, http.StatusOK, t)
			return
		}
	}
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	seed, err := s.seedParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	teams, err := s.teams.GetTeams()
	if err != nil {
		s.fail(w, err)
		return
	}

	run, err := league.Simulate(league.NewRand(seed), teams, s.params)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("simulated tournament", "seed", seed, "champion", run.Knockout.Champion.Name)
	s.writeJSON(w, http.StatusOK, SimulateResponse{Seed: seed, Run: run})
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	seed, err := s.seedParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs := s.runs
	if v := r.URL.Query().Get("runs"); v != "" {
		runs, err = strconv.Atoi(v)
		if err != nil || runs <= 0 || runs > s.maxRuns {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("runs must be between 1 and %d", s.maxRuns))
			return
		}
	}
	teams, err := s.teams.GetTeams()
	if err != nil {
		s.fail(w, err)
		return
	}

	var only map[string]bool
	if v := r.URL.Query().Get("teams"); v != "" {
		filter, err := splitTeams(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		names, err := resolveNames(filter, teams)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		only = make(map[string]bool, len(names))
		for _, n := range names {
			only[n] = true
		}
	}

	d, err := league.Estimate(league.NewRand(seed), teams, s.params, runs)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("estimated odds", "seed", seed, "runs", runs)

	resp := OddsResponse{Runs: runs, Seed: seed}
	for _, p := range d.Predictions() {
		if only != nil && !only[p.Team.Name] {
			continue
		}
		o, _ := d.Outcome(p.Team.Name)
		resp.Teams = append(resp.Teams, toOdds(o, runs))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func toOdds(o league.Outcome, runs int) TeamOdds {
	pct := func(n int) float64 {
		return float64(n*10000/runs) / 100
	}
	odds := TeamOdds{
		Team:     o.Team.Name,
		Direct:   pct(o.Direct),
		Reached:  make(map[string]float64, len(league.Stages)),
		Champion: pct(o.Champion),
	}
	for _, st := range league.Stages {
		odds.Reached[st.String()] = pct(o.Reached[st])
	}
	return odds
}

func (s *Server) seedParam(r *http.Request) (uint64, error) {
	v := r.URL.Query().Get("seed")
	if v == "" {
		return s.seed(), nil
	}
	seed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed must be an unsigned integer")
	}
	return seed, nil
}

// splitTeams parses a comma separated list where names may be double quoted.
func splitTeams(v string) ([]string, error) {
	commaSplitter, err := splitter.NewSplitter(',', splitter.DoubleQuotes)
	if err != nil {
		return nil, err
	}
	parts, err := commaSplitter.Split(v)
	if err != nil {
		return nil, fmt.Errorf("parsing teams: %w", err)
	}
	var names []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.ReplaceAll(p, "\"", ""))
		if p != "" {
			names = append(names, p)
		}
	}
	return names, nil
}

// resolveNames maps user supplied names to team names, exact matches first,
// then the single best fuzzy match.
func resolveNames(input []string, teams []league.Team) ([]string, error) {
	lookup := make(map[string]string, len(teams))
	names := make([]string, len(teams))
	for i, t := range teams {
		lookup[strings.ToLower(t.Name)] = t.Name
		names[i] = t.Name
	}

	var resolved, unknown []string
	for _, in := range input {
		if name, ok := lookup[strings.ToLower(in)]; ok {
			resolved = append(resolved, name)
			continue
		}
		name, ok := ratings.Closest(in, names)
		if !ok {
			unknown = append(unknown, in)
			continue
		}
		resolved = append(resolved, name)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown or ambiguous team: %s", strings.Join(unknown, ", "))
	}
	return resolved, nil
}

// fail maps engine input errors to 422 and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	for _, target := range []error{
		league.ErrInvalidTeam, league.ErrNoTeams, league.ErrDuplicateTeam,
		league.ErrOddPool, league.ErrBracketShape, league.ErrInvalidParams,
	} {
		if errors.Is(err, target) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	s.logger.Error("request failed", "err", err)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "status", status, "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
