package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/caixa/internal/app"
	"github.com/MrJamesThe3rd/caixa/internal/config"
	"github.com/MrJamesThe3rd/caixa/internal/database"
)

func newMigrateCommand() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations, or roll back with --down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			app.InstallLogger(cfg, os.Stderr)

			if down > 0 {
				if err := database.Rollback(cfg.ConnectionString(), down); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", down)

				return nil
			}

			if err := database.Migrate(cfg.ConnectionString()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")

			return nil
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "number of migrations to roll back")

	return cmd
}
