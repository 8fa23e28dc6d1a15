package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
	"github.com/loirouge414/Who-is-UCL-winner/internal/ratings"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "none.env")))
	err := root.Execute()
	return out.String(), err
}

func writeTeamsCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("name,strength\n")
	for i := 0; i < league.LeagueSize; i++ {
		fmt.Fprintf(&b, "Team%d,%.4f\n", i+1, float64(i)/35)
	}
	path := filepath.Join(t.TempDir(), "teams.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "uclsim version "+version+"\n", out)

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"`+version+`"}`, out)
}

func TestRunCmd(t *testing.T) {
	teams := writeTeamsCSV(t)

	out, err := execute(t, "run", "--teams", teams, "--seed", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Seed: 3\n"))
	assert.Contains(t, out, "== Playoff ==")
	assert.Contains(t, out, "Champion: ")

	again, err := execute(t, "run", "--teams", teams, "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	jsonOut, err := execute(t, "run", "--teams", teams, "--seed", "3", "--json")
	require.NoError(t, err)
	var decoded struct {
		Seed      uint64            `json:"seed"`
		Standings []league.Standing `json:"standings"`
	}
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	assert.Equal(t, uint64(3), decoded.Seed)
	assert.Len(t, decoded.Standings, league.LeagueSize)
}

func TestRunCmd_Errors(t *testing.T) {
	_, err := execute(t, "run", "--teams", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "few.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,strength\nA,0.1\nB,0.9\n"), 0o644))
	_, err = execute(t, "run", "--teams", path, "--seed", "1")
	assert.ErrorIs(t, err, league.ErrBracketShape)

	_, err = execute(t, "run", "--teams", path, "--log-level", "loud")
	assert.ErrorContains(t, err, "log level")
}

func TestOddsCmd(t *testing.T) {
	teams := writeTeamsCSV(t)

	out, err := execute(t, "odds", "--teams", teams, "--seed", "1", "--runs", "30", "--top", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8) // seed line, blank, header, 5 rows
	assert.Contains(t, lines[0], "Runs: 30")
	assert.Contains(t, lines[2], "Champion")

	out, err = execute(t, "odds", "--teams", teams, "--seed", "1", "--runs", "30", "--json")
	require.NoError(t, err)
	var decoded struct {
		Runs        int                 `json:"runs"`
		Predictions []league.Prediction `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 30, decoded.Runs)
	assert.Len(t, decoded.Predictions, league.LeagueSize)

	_, err = execute(t, "odds", "--teams", teams, "--runs", "-1")
	assert.Error(t, err)
}

func TestImportCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2025-09-01", r.URL.Path)
		fmt.Fprint(w, "Rank,Club,Country,Level,Elo,From,To\n"+
			"1,Liverpool,ENG,1,2000.5,2025-08-30,2025-09-02\n"+
			"2,Real Madrid,ESP,1,1950,2025-08-30,2025-09-02\n"+
			"3,Bayern,GER,1,1900,2025-08-30,2025-09-02\n")
	}))
	defer srv.Close()
	t.Setenv("UCLSIM_CLUBELO_URL", srv.URL)

	dir := t.TempDir()
	roster := filepath.Join(dir, "roster.csv")
	require.NoError(t, os.WriteFile(roster, []byte(
		"team,elo_club_name,country\n"+
			"Liverpool,,ENG\n"+
			"Real Madrid,Real Madrid,ESP\n"+
			"Bayern Munich,Bayern,GER\n"+
			"Pafos,,CYP\n"), 0o644))
	outFile := filepath.Join(dir, "teams.yaml")

	out, err := execute(t, "import", "--roster", roster, "--date", "2025-09-01", "--out", outFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 teams")
	assert.Contains(t, out, "no rating: Pafos")

	teams, err := ratings.LoadTeams(outFile)
	require.NoError(t, err)
	require.Len(t, teams, 3)
	byName := map[string]league.Team{}
	for _, tm := range teams {
		byName[tm.Name] = tm
	}
	assert.Equal(t, 1.0, byName["Liverpool"].Strength)
	assert.Equal(t, 0.0, byName["Bayern Munich"].Strength)
}

func TestImportCmd_NoDatabase(t *testing.T) {
	if _, set := os.LookupEnv("UCLSIM_DATABASE_URL"); set {
		t.Skip("UCLSIM_DATABASE_URL is set")
	}
	_, err := execute(t, "migrate")
	assert.ErrorContains(t, err, "no database configured")
}
