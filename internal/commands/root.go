// Package commands implements the caixa maintenance CLI.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/caixa/internal/app"
	"github.com/MrJamesThe3rd/caixa/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "caixa",
		Short: "Maintenance tasks for the caixa finance backend",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newCreateUserCommand(),
		newSeedCommand(),
		newMarkOverdueCommand(),
	)

	return rootCmd
}

// runtime is what most commands need: config, an open database and services.
type runtime struct {
	cfg *config.Config
	db  *sql.DB
	svc *app.Services
}

func (r *runtime) Close() error {
	return r.db.Close()
}

func open(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	app.InstallLogger(cfg, os.Stderr)

	db, err := app.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// The CLI talks to Postgres directly; no user cache.
	return &runtime{cfg: cfg, db: db, svc: app.NewServices(cfg, db, nil)}, nil
}
