package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
	"github.com/loirouge414/Who-is-UCL-winner/internal/report"
)

func newOddsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Estimate stage and championship probabilities by Monte Carlo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("runs") {
				cfg.Simulation.Runs, _ = cmd.Flags().GetInt("runs")
			}
			file, _ := cmd.Flags().GetString("teams")
			teams, err := loadTeams(cfg, file)
			if err != nil {
				return err
			}

			seed := seedFor(cmd, cfg)
			logger.Info("estimating odds", "seed", seed, "runs", cfg.Simulation.Runs)
			d, err := league.Estimate(league.NewRand(seed), teams, cfg.Simulation.Params, cfg.Simulation.Runs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return report.WriteJSON(out, map[string]any{
					"runs":        d.Runs,
					"seed":        seed,
					"predictions": d.Predictions(),
					"outcomes":    d.Outcomes(),
				})
			}

			champion := d.Predictions()
			if top, _ := cmd.Flags().GetInt("top"); top > 0 && top < len(champion) {
				champion = champion[:top]
			}
			fmt.Fprintf(out, "Seed: %d  Runs: %d\n\n", seed, d.Runs)
			return report.WritePredictions(out,
				[]string{"Champion", "Final", "SF", "QF", "R16"},
				champion,
				d.StagePredictions(league.Final),
				d.StagePredictions(league.SemiFinal),
				d.StagePredictions(league.QuarterFinal),
				d.StagePredictions(league.RoundOf16),
			)
		},
	}
	cmd.Flags().String("teams", "", "Teams file (csv, yaml or json) instead of the database")
	cmd.Flags().Uint64("seed", 0, "Random seed (overrides config)")
	cmd.Flags().Int("runs", 0, "Number of simulated tournaments (overrides config)")
	cmd.Flags().Int("top", 0, "Only print the N most likely champions")
	return cmd
}
