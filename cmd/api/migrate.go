package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturation-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes y termina",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool, log); err != nil {
			return err
		}
		version, err := postgres.MigrationVersion(ctx, pool)
		if err != nil {
			return err
		}
		log.Info().Int64("version", version).Msg("migraciones aplicadas")
		return nil
	},
}
