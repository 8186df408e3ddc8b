package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/facturation-api/pkg/config"
	"github.com/jhoicas/facturation-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "facturation-api",
	Short: "API de facturation: devis, factures, bons de sortie et abonnements",
	Long: `facturation-api sirve la API HTTP del front de facturación.

Sin subcomando arranca el servidor (equivale a "serve").`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap carga la configuración y construye el logger raíz.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	return cfg, log, nil
}
