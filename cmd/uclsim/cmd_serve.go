package main

import (
	"github.com/spf13/cobra"

	"github.com/loirouge414/Who-is-UCL-winner/internal/api"
	"github.com/loirouge414/Who-is-UCL-winner/internal/league"
	"github.com/loirouge414/Who-is-UCL-winner/internal/ratings"
)

// fileTeams serves a fixed team list loaded at startup.
type fileTeams []league.Team

func (f fileTeams) GetTeams() ([]league.Team, error) {
	return f, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulations over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("addr"); v != "" {
				cfg.Server.Addr = v
			}

			var source api.TeamSource
			if file, _ := cmd.Flags().GetString("teams"); file != "" {
				teams, err := ratings.LoadTeams(file)
				if err != nil {
					return err
				}
				source = fileTeams(teams)
			} else {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				source = st
			}

			return api.Start(api.Config{
				Addr:      cfg.Server.Addr,
				Teams:     source,
				Params:    cfg.Simulation.Params,
				Runs:      cfg.Simulation.Runs,
				MaxRuns:   cfg.Server.MaxRuns,
				OddsRate:  cfg.Server.OddsRate,
				OddsBurst: cfg.Server.OddsBurst,
				Logger:    logger,
			})
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().String("teams", "", "Serve teams from this file instead of the database")
	return cmd
}
