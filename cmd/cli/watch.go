package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/mirror"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously poll the backend and print summary changes",
	Long: `Run the refresh loop in the foreground and print the inventory summary
whenever it changes. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newBackendClient()
	store := mirror.New(client, mirror.Config{
		Interval:          cfg.Refresh.Interval,
		LowStockThreshold: cfg.Refresh.LowStockThreshold,
	}, logger)
	go store.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Refresh.Interval)
	defer ticker.Stop()

	var last mirror.Summary
	var seen bool

	for {
		select {
		case <-quit:
			store.Stop()
			return nil
		case <-ticker.C:
			if err := store.LastError(); err != nil {
				logger.Warn().Err(err).Msg("Refresh failing, showing last good snapshot")
			}
			snap := store.Snapshot()
			if snap == nil {
				continue
			}
			if seen && summaryEqual(last, snap.Summary) {
				continue
			}
			last = snap.Summary
			seen = true
			fmt.Printf("[%s] products=%d sales=%d revenue=%.2f low_stock=%d\n",
				snap.RefreshedAt.Format("15:04:05"),
				last.TotalProducts, last.TotalSales, last.TotalRevenue, last.LowStockItems)
		}
	}
}

func summaryEqual(a, b mirror.Summary) bool {
	if a.TotalProducts != b.TotalProducts ||
		a.TotalSales != b.TotalSales ||
		a.TotalRevenue != b.TotalRevenue ||
		a.LowStockItems != b.LowStockItems ||
		len(a.SalesByCategory) != len(b.SalesByCategory) {
		return false
	}
	for k, v := range a.SalesByCategory {
		if b.SalesByCategory[k] != v {
			return false
		}
	}
	return true
}
