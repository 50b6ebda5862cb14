package main

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // драйвер pgx для database/sql
	"github.com/spf13/cobra"

	"github.com/shestoi/magazyn/internal/config"
	"github.com/shestoi/magazyn/migrations"
)

// openDB загружает конфигурацию миграций и открывает соединение с PostgreSQL
func openDB() (*sql.DB, error) {
	cfg, err := config.LoadMigrations()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// magazyn migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the magazyn table in PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return migrations.Up(cmd.Context(), db)
	},
}

// magazyn migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return migrations.Status(cmd.Context(), db)
	},
}
