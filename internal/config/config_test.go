package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5.0, cfg.Simulation.Sensitivity)
	assert.Equal(t, 0.15, cfg.Simulation.NoiseStdDev)
	assert.Equal(t, 10_000, cfg.Simulation.Runs)
	assert.Equal(t, uint64(0), cfg.Simulation.Seed)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uclsim.yaml")
	body := `
simulation:
  sensitivity: 8
  noise_std_dev: 0.1
  runs: 500
  seed: 42
database:
  url: postgres://localhost/ucl
ratings:
  fuzzy: true
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, league.Params{Sensitivity: 8, NoiseStdDev: 0.1}, cfg.Simulation.Params)
	assert.Equal(t, 500, cfg.Simulation.Runs)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, "postgres://localhost/ucl", cfg.Database.URL)
	assert.True(t, cfg.Ratings.Fuzzy)
	assert.Equal(t, 3*time.Second, cfg.Ratings.Timeout)
	// untouched keys keep their defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UCLSIM_SEED", "7")
	t.Setenv("UCLSIM_RUNS", "123")
	t.Setenv("UCLSIM_SENSITIVITY", "2.5")
	t.Setenv("UCLSIM_NOISE", "0")
	t.Setenv("UCLSIM_ADDR", ":9000")
	t.Setenv("UCLSIM_LOG_LEVEL", "debug")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, 123, cfg.Simulation.Runs)
	assert.Equal(t, 2.5, cfg.Simulation.Sensitivity)
	assert.Equal(t, 0.0, cfg.Simulation.NoiseStdDev)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	if _, set := os.LookupEnv("UCLSIM_DATABASE_URL"); set {
		t.Skip("UCLSIM_DATABASE_URL already set")
	}
	t.Cleanup(func() { os.Unsetenv("UCLSIM_DATABASE_URL") })
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("UCLSIM_DATABASE_URL=postgres://env/ucl\n"), 0o644))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/ucl", cfg.Database.URL)

	// a missing env file is not an error
	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("UCLSIM_RUNS", "many")
	_, err := Load("", "")
	assert.ErrorContains(t, err, "UCLSIM_RUNS")

	t.Setenv("UCLSIM_RUNS", "")
	t.Setenv("UCLSIM_NOISE", "-1")
	_, err = Load("", "")
	assert.ErrorIs(t, err, league.ErrInvalidParams)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	assert.ErrorContains(t, cfg.Validate(), "invalid log level")

	cfg = Default()
	cfg.Ratings.Date = "September"
	assert.ErrorContains(t, cfg.Validate(), "ratings.date")

	cfg = Default()
	cfg.Simulation.Runs = 0
	assert.Error(t, cfg.Validate())

	// a zero rate turns throttling off
	cfg = Default()
	cfg.Server.OddsRate = 0
	assert.NoError(t, cfg.Validate())

	cfg.Server.OddsRate = -1
	assert.ErrorContains(t, cfg.Validate(), "server.odds_rate")
}
