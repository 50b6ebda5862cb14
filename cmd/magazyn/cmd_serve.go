package main

import (
	"github.com/spf13/cobra"

	"github.com/shestoi/magazyn/internal/app"
	"github.com/shestoi/magazyn/internal/config"
)

// magazyn serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Build собирает граф зависимостей и инициализирует все компоненты
		application, err := app.Build(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		// Run блокируется до graceful shutdown
		return application.Run(cmd.Context())
	},
}
