package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shestoi/magazyn/internal/app"
	"github.com/shestoi/magazyn/internal/config"
	"github.com/shestoi/magazyn/internal/repository"
	"github.com/shestoi/magazyn/internal/service"
	"github.com/shestoi/magazyn/internal/store"
	platformlogging "github.com/shestoi/magazyn/platform/logging"
)

// withStore загружает конфигурацию, открывает таблицу и вызывает fn
func withStore(ctx context.Context, fn func(ctx context.Context, cfg config.Config, client *store.Client) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer platformlogging.Sync(logger)

	table, closeTable, err := app.OpenTable(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeTable(context.Background()); err != nil {
			logger.Warn("Failed to close store", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	return fn(ctx, cfg, store.NewClient(table, logger))
}

// magazyn check
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the inventory store is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, cfg config.Config, client *store.Client) error {
			if err := client.Ping(ctx); err != nil {
				return fmt.Errorf("store %s is not reachable: %w", cfg.StoreDriver, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s store\n", cfg.StoreDriver)
			return nil
		})
	},
}

// magazyn list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the inventory and its total value",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, _ config.Config, client *store.Client) error {
			items, err := client.ListItems(ctx)
			if err != nil {
				return err
			}
			return renderInventory(cmd.OutOrStdout(), items)
		})
	},
}

// renderInventory печатает позиции таблицей и итог
func renderInventory(out io.Writer, items []repository.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "Inventory is empty")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tUNIT PRICE\tVALUE\tADDED\t")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t\n",
			item.ID,
			item.Name,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.Value().StringFixed(2),
			repository.FormatDate(item.AddedAt),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	summary := service.Summarize(items)
	_, err := fmt.Fprintf(out, "\n%d items, %d units, total value %s\n",
		summary.ItemCount, summary.TotalQuantity, summary.TotalValue.StringFixed(2))
	return err
}
