package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/report"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

var (
	exportFile string
	exportAll  bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stock comparison and current orders as an Excel workbook",
	Example: `  restock-agent export
  restock-agent export --out inventory.xlsx --all`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFile, "out", "stock-comparison.xlsx", "Output file path")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Include products outside the relevance filter")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	client := newBackendClient()

	snapshots, err := client.VirtualStock(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stock levels: %w", err)
	}

	stockCfg := stock.Config{
		RelevantOnHandThreshold: cfg.Stock.RelevantOnHandThreshold,
		LowStockThreshold:       cfg.Refresh.LowStockThreshold,
	}
	if !exportAll {
		snapshots = stock.Relevant(snapshots, stockCfg)
	}
	rows := stock.Comparison(snapshots, stockCfg)

	// Orders are optional: export the stock view even when the backend
	// has no recommendation yet.
	var orders []backend.Order
	if analysis, err := client.Analysis(ctx); err != nil {
		logger.Warn().Err(err).Msg("No analysis available, exporting stock view only")
	} else {
		orders = analysis.OrdersPlaced
	}

	f, err := os.Create(exportFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := report.WriteStockComparison(f, rows, orders); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	logger.Info().Str("file", exportFile).Int("rows", len(rows)).Int("orders", len(orders)).Msg("Workbook written")
	return nil
}
