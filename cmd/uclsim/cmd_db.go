package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the teams table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if reset, _ := cmd.Flags().GetBool("reset"); reset {
				if err := st.DeleteAllTeams(); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
				logger.Warn("deleted all stored teams")
			}
			logger.Info("database migrated")
			return nil
		},
	}
	cmd.Flags().Bool("reset", false, "Delete every stored team after migrating")
	return cmd
}
