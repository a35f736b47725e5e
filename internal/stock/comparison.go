// Package stock projects reconciliation views over the latest virtual
// stock snapshots. It never mutates the collection it is given.
package stock

import (
	"math"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

// Config holds the reconciliation view thresholds
type Config struct {
	// RelevantOnHandThreshold selects items worth showing even without
	// pending orders.
	RelevantOnHandThreshold int

	// LowStockThreshold flags items at risk of running out.
	LowStockThreshold int
}

// DefaultConfig returns the thresholds used by the dashboard view
func DefaultConfig() Config {
	return Config{
		RelevantOnHandThreshold: 100,
		LowStockThreshold:       50,
	}
}

// Row is one reconciled item in the comparison view
type Row struct {
	backend.StockSnapshot

	// UpliftPercent is the relative growth from on-hand to virtual
	// stock, as a rounded percentage.
	UpliftPercent int `json:"uplift_percent"`

	LowStock         bool `json:"low_stock"`
	HasPendingOrders bool `json:"has_pending_orders"`
}

// Relevant filters snapshots down to items with pending orders or with
// on-hand stock below the configured threshold
func Relevant(snapshots []backend.StockSnapshot, cfg Config) []backend.StockSnapshot {
	if cfg.RelevantOnHandThreshold <= 0 {
		cfg.RelevantOnHandThreshold = DefaultConfig().RelevantOnHandThreshold
	}
	relevant := make([]backend.StockSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.PendingOrdersQuantity > 0 || s.StockOnHand < cfg.RelevantOnHandThreshold {
			relevant = append(relevant, s)
		}
	}
	return relevant
}

// UpliftPercent returns the percentage increase from on-hand to virtual
// stock, rounded to an integer. Zero on-hand stock yields 0 rather than
// a division by zero.
func UpliftPercent(s backend.StockSnapshot) int {
	if s.StockOnHand == 0 {
		return 0
	}
	uplift := float64(s.VirtualStock-s.StockOnHand) / float64(s.StockOnHand) * 100
	return int(math.Round(uplift))
}

// Comparison builds the reconciliation view over exactly the snapshots
// it is given; callers narrow the input with Relevant when they want the
// filtered view
func Comparison(snapshots []backend.StockSnapshot, cfg Config) []Row {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultConfig().LowStockThreshold
	}
	rows := make([]Row, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, Row{
			StockSnapshot:    s,
			UpliftPercent:    UpliftPercent(s),
			LowStock:         s.StockOnHand < cfg.LowStockThreshold,
			HasPendingOrders: s.PendingOrdersQuantity > 0,
		})
	}
	return rows
}
