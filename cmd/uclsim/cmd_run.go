package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loirouge414/Who-is-UCL-winner/internal/api"
	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
	"github.com/loirouge414/Who-is-UCL-winner/internal/logging"
	"github.com/loirouge414/Who-is-UCL-winner/internal/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one tournament",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			file, _ := cmd.Flags().GetString("teams")
			teams, err := loadTeams(cfg, file)
			if err != nil {
				return err
			}

			seed := seedFor(cmd, cfg)
			logger.Debug("simulating", "seed", seed, "teams", len(teams))
			run, err := league.Simulate(league.NewRand(seed), teams, cfg.Simulation.Params)
			if err != nil {
				return err
			}
			for _, m := range run.Knockout.Matches() {
				logger.Log(cmd.Context(), logging.LevelTrace, m.String())
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return report.WriteJSON(out, api.SimulateResponse{Seed: seed, Run: run})
			}
			fmt.Fprintf(out, "Seed: %d\n\n", seed)
			if err := report.WriteStandings(out, run.Standings); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return report.WriteKnockout(out, run.Knockout)
		},
	}
	cmd.Flags().String("teams", "", "Teams file (csv, yaml or json) instead of the database")
	cmd.Flags().Uint64("seed", 0, "Random seed (overrides config)")
	return cmd
}
