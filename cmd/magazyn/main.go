package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "magazyn",
	Short:         "magazyn - inventory tracker",
	Long:          "magazyn keeps a single inventory table (name, quantity, unit price, date added) in Supabase, PostgreSQL or MongoDB.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateStatusCmd)

	// Inventory
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(listCmd)
}
