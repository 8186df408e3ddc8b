package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturation-api/internal/application/access"
	"github.com/jhoicas/facturation-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturation-api/internal/infrastructure/queue"
)

// sweepCmd pensado para cron: expira de una vez las suscripciones vencidas.
var sweepCmd = &cobra.Command{
	Use:   "sweep-subscriptions",
	Short: "Marca como expired las suscripciones activas ya vencidas",
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

		subs := access.NewSubscriptionService(
			postgres.NewSubscriptionRepository(pool),
			nil,
			queue.NewPublisher(cfg.RabbitMQ, log),
			access.SubscriptionConfig{TrialDays: cfg.Subscription.TrialDays, AnnualDays: cfg.Subscription.AnnualDays},
			log,
		)
		n, err := subs.SweepExpired(ctx)
		if err != nil {
			return err
		}
		log.Info().Int64("expired", n).Msg("barrido terminado")
		return nil
	},
}
