package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/mirror"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

var (
	statusOutput string
	statusAll    bool
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current inventory summary and stock comparison",
	Long: `Fetch a single snapshot of the backend's products, sales, and stock
levels and print the derived summary alongside the stock comparison view.
By default only products worth watching are shown: anything with pending
orders or on-hand stock below the relevance threshold.

Output can be formatted as a human-readable table (default) or JSON.`,
	Example: `  restock-agent status
  restock-agent status --all
  restock-agent status --output json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusOutput, "output", "table", "Output format: table or json")
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "Include products outside the relevance filter")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client := newBackendClient()
	store := mirror.New(client, mirror.Config{
		Interval:          cfg.Refresh.Interval,
		LowStockThreshold: cfg.Refresh.LowStockThreshold,
	}, logger)

	if err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("snapshot refresh failed: %w", err)
	}
	snap := store.Snapshot()

	stockCfg := stock.Config{
		RelevantOnHandThreshold: cfg.Stock.RelevantOnHandThreshold,
		LowStockThreshold:       cfg.Refresh.LowStockThreshold,
	}
	snapshots := snap.VirtualStock
	if !statusAll {
		snapshots = stock.Relevant(snapshots, stockCfg)
	}
	rows := stock.Comparison(snapshots, stockCfg)

	switch strings.ToLower(statusOutput) {
	case "json":
		return outputStatusJSON(snap.Summary, rows)
	case "table":
		outputStatusTable(snap.Summary, rows)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", statusOutput)
	}

	return nil
}

func outputStatusTable(summary mirror.Summary, rows []stock.Row) {
	fmt.Printf("Products: %d   Sales: %d   Revenue: %.2f   Low stock: %d\n\n",
		summary.TotalProducts, summary.TotalSales, summary.TotalRevenue, summary.LowStockItems)

	if len(rows) == 0 {
		fmt.Println("No products match the relevance filter")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SKU\tPRODUCT\tON HAND\tVIRTUAL\tPENDING\tUPLIFT\tLOW")
	fmt.Fprintln(w, "---\t-------\t-------\t-------\t-------\t------\t---")

	for _, r := range rows {
		low := "-"
		if r.LowStock {
			low = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d%%\t%s\n",
			r.SKU, r.ProductName, r.StockOnHand, r.VirtualStock,
			r.PendingOrdersQuantity, r.UpliftPercent, low)
	}

	w.Flush()
}

func outputStatusJSON(summary mirror.Summary, rows []stock.Row) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{
		"summary": summary,
		"rows":    rows,
	})
}
