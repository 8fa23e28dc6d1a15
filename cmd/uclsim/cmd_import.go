package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loirouge414/Who-is-UCL-winner/internal/clubelo"
	"github.com/loirouge414/Who-is-UCL-winner/internal/ratings"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch ClubElo ratings for the roster and store normalized teams",
		Long: `Downloads the ClubElo snapshot for the configured date, attaches a
rating to every roster entry and min-max scales the ratings into
strengths. Teams go to the database unless --out names a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			if v, _ := cmd.Flags().GetString("date"); v != "" {
				cfg.Ratings.Date = v
			}
			if v, _ := cmd.Flags().GetString("roster"); v != "" {
				cfg.Ratings.Roster = v
			}
			if cmd.Flags().Changed("fuzzy") {
				cfg.Ratings.Fuzzy, _ = cmd.Flags().GetBool("fuzzy")
			}
			date, err := cfg.Ratings.SnapshotDate()
			if err != nil {
				return err
			}

			roster, err := ratings.LoadRoster(cfg.Ratings.Roster)
			if err != nil {
				return err
			}

			client := clubelo.NewClient(cfg.Ratings.ClubEloURL, cfg.Ratings.Timeout)
			logger.Info("fetching ratings", "date", cfg.Ratings.Date, "url", client.BaseURL)
			snapshot, err := client.Snapshot(cmd.Context(), date)
			if err != nil {
				return err
			}
			logger.Debug("snapshot loaded", "clubs", len(snapshot))

			merged, unmatched := ratings.Merge(roster, snapshot, ratings.MergeOptions{
				Fuzzy:  cfg.Ratings.Fuzzy,
				Logger: logger,
			})
			teams := ratings.Normalize(merged)

			out, _ := cmd.Flags().GetString("out")
			if out != "" {
				if err := ratings.SaveTeams(out, teams); err != nil {
					return err
				}
			} else {
				st, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.Migrate(); err != nil {
					return err
				}
				if err := st.UpsertTeams(teams); err != nil {
					return err
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"imported":  len(teams),
					"unmatched": unmatched,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d teams\n", len(teams))
			for _, name := range unmatched {
				fmt.Fprintf(cmd.OutOrStdout(), "  no rating: %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().String("date", "", "Snapshot date (YYYY-MM-DD)")
	cmd.Flags().String("roster", "", "Roster file (csv, yaml or json)")
	cmd.Flags().Bool("fuzzy", false, "Fall back to fuzzy club name matching")
	cmd.Flags().String("out", "", "Write teams to this file instead of the database")
	return cmd
}
