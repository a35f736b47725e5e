package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/mirror"
	sess "github.com/FlorisRimb/AI-Agent-Xiatech/internal/session"
)

var sessionTimeout time.Duration

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run one restocking session from detection to settlement",
	Long: `Activate the automated restocking workflow and wait for it to settle.
The backend analyzes stock levels, places orders for anything below the
low-stock threshold, and the session settles once the results are in.
Every step is printed as it happens.`,
	Example: `  restock-agent session
  restock-agent session --timeout 2m`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.Flags().DurationVar(&sessionTimeout, "timeout", 5*time.Minute, "Give up waiting for settlement after this long")
}

func runSession(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	client := newBackendClient()
	store := mirror.New(client, mirror.Config{
		Interval:          cfg.Refresh.Interval,
		LowStockThreshold: cfg.Refresh.LowStockThreshold,
	}, logger)

	if err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("snapshot refresh failed: %w", err)
	}

	manager := sess.NewManager(ctx, client, store, sess.Config{
		AnalysisDelay: cfg.Session.AnalysisDelay,
		HistoryLimit:  cfg.Session.HistoryLimit,
		MaxEvents:     cfg.Session.MaxEvents,
	}, logger)

	s, err := manager.Activate()
	if err != nil {
		return fmt.Errorf("activation failed: %w", err)
	}

	logger.Info().Str("session", s.ID()).Msg("Session activated")

	// Stream events as the workflow progresses
	printed := 0
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		printed = printNewEvents(manager.Events(), printed)

		select {
		case <-s.Done():
			printed = printNewEvents(manager.Events(), printed)
			state := s.State()
			fmt.Printf("\nSession %s settled in phase %q\n", state.ID, state.Phase)
			if state.Analysis != nil {
				sum := state.Analysis.Summary
				fmt.Printf("Low stock: %d   Orders placed: %d   Units ordered: %d\n",
					sum.TotalLowStock, sum.TotalOrders, sum.TotalUnitsOrdered)
			}
			return nil
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for session to settle: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func printNewEvents(log *sess.EventLog, printed int) int {
	entries := log.Entries()
	for _, e := range entries[printed:] {
		fmt.Printf("[%s] %-8s %s\n", e.Timestamp.Format("15:04:05"), e.Kind, e.Text)
	}
	return len(entries)
}
