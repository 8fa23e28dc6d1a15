package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/loirouge414/Who-is-UCL-winner/internal/config"
	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
	"github.com/loirouge414/Who-is-UCL-winner/internal/logging"
	"github.com/loirouge414/Who-is-UCL-winner/internal/ratings"
	"github.com/loirouge414/Who-is-UCL-winner/internal/store"
)

var version = "0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uclsim",
		Short: "Champions League tournament simulator",
		Long: `uclsim simulates the 36-team Champions League format: a league phase
ranked on noisy performance followed by a knockout bracket from the
play-off round to the final.

Ratings are imported from ClubElo, stored in PostgreSQL and served over
HTTP. Single runs and Monte Carlo odds are available from the CLI.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("env", ".env", "Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: warn, info, debug, trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newMigrateCmd(),
		newImportCmd(),
		newRunCmd(),
		newOddsCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env")

	cfg, err := config.Load(path, envFile)
	if err != nil {
		return nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("no database configured: set database.url or UCLSIM_DATABASE_URL")
	}
	return store.NewStore(cfg.Database.URL)
}

// loadTeams reads teams from file when given, otherwise from the database.
func loadTeams(cfg *config.Config, file string) ([]league.Team, error) {
	if file != "" {
		return ratings.LoadTeams(file)
	}
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.GetTeams()
}

// seedFor returns the --seed flag when set, then the configured seed, then a
// time-based one.
func seedFor(cmd *cobra.Command, cfg *config.Config) uint64 {
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		return seed
	}
	if cfg.Simulation.Seed != 0 {
		return cfg.Simulation.Seed
	}
	return uint64(time.Now().UnixNano())
}
