package ratings

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

// LoadRoster reads competition entries from a YAML, JSON or CSV file. CSV
// files need a header with team, elo_club_name and country columns.
func LoadRoster(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var roster []Entry
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &roster)
	case ".json":
		err = json.Unmarshal(raw, &roster)
	case ".csv":
		roster, err = parseRosterCSV(string(raw))
	default:
		return nil, fmt.Errorf("unsupported roster format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}
	for i, e := range roster {
		if e.Team == "" {
			return nil, fmt.Errorf("roster %s: entry %d has no team name", path, i+1)
		}
	}
	return roster, nil
}

func parseRosterCSV(data string) ([]Entry, error) {
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	if _, ok := cols["team"]; !ok {
		return nil, fmt.Errorf("header missing team column")
	}
	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	roster := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		roster = append(roster, Entry{
			Team:       get(row, "team"),
			RatingName: get(row, "elo_club_name"),
			Country:    get(row, "country"),
		})
	}
	return roster, nil
}

// LoadTeams reads normalized teams from a YAML, JSON or CSV (name,strength)
// file and validates every record.
func LoadTeams(path string) ([]league.Team, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading teams: %w", err)
	}

	var teams []league.Team
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &teams)
	case ".json":
		err = json.Unmarshal(raw, &teams)
	case ".csv":
		teams, err = parseTeamsCSV(string(raw))
	default:
		return nil, fmt.Errorf("unsupported teams format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing teams %s: %w", path, err)
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("teams %s: %w", path, league.ErrNoTeams)
	}
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("teams %s: %w", path, err)
		}
	}
	return teams, nil
}

func parseTeamsCSV(data string) ([]league.Team, error) {
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	var teams []league.Team
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: want name,strength", i+1)
		}
		strength, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad strength: %w", i+1, err)
		}
		teams = append(teams, league.Team{Name: strings.TrimSpace(row[0]), Strength: strength})
	}
	return teams, nil
}

// SaveTeams writes teams as YAML or JSON depending on the file extension.
func SaveTeams(path string, teams []league.Team) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(teams)
	case ".json":
		data, err = json.MarshalIndent(teams, "", "  ")
	default:
		return fmt.Errorf("unsupported teams format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("encoding teams: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing teams: %w", err)
	}
	return nil
}
