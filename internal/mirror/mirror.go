// Package mirror maintains an eventually-consistent copy of the backend's
// authoritative collections. The snapshot is immutable and swapped
// atomically so a reader never observes one refreshed collection next to
// three stale ones.
package mirror

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

// Source is the read surface of the backend the mirror polls
type Source interface {
	Products(ctx context.Context) ([]backend.Product, error)
	Sales(ctx context.Context) ([]backend.Sale, error)
	StockLevels(ctx context.Context) ([]backend.StockLevel, error)
	VirtualStock(ctx context.Context) ([]backend.StockSnapshot, error)
}

// Summary holds the aggregates derived from one snapshot
type Summary struct {
	TotalProducts   int            `json:"total_products"`
	TotalSales      int            `json:"total_sales"`
	TotalRevenue    float64        `json:"total_revenue"`
	LowStockItems   int            `json:"low_stock_items"`
	SalesByCategory map[string]int `json:"sales_by_category"`
}

// Snapshot is an immutable view of the four mirrored collections plus the
// derived summary. It is built off to the side and swapped in one step.
type Snapshot struct {
	Products     []backend.Product       `json:"products"`
	Sales        []backend.Sale          `json:"sales"`
	StockLevels  []backend.StockLevel    `json:"stock_levels"`
	VirtualStock []backend.StockSnapshot `json:"virtual_stock"`
	Summary      Summary                 `json:"summary"`
	RefreshedAt  time.Time               `json:"refreshed_at"`
}

// Config holds mirror settings
type Config struct {
	// Interval is the polling cadence.
	Interval time.Duration

	// LowStockThreshold is the on-hand level below which an item counts
	// toward the summary's low-stock total.
	LowStockThreshold int
}

// DefaultConfig returns the mirror defaults matching the dashboard view
func DefaultConfig() Config {
	return Config{
		Interval:          5 * time.Second,
		LowStockThreshold: 50,
	}
}

// Mirror polls the backend and exposes the latest snapshot
type Mirror struct {
	source Source
	config Config
	logger *zerolog.Logger

	snapshot atomic.Pointer[Snapshot]

	errMu   sync.Mutex
	lastErr error

	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a mirror over the given source
func New(source Source, config Config, logger *zerolog.Logger) *Mirror {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	if config.LowStockThreshold <= 0 {
		config.LowStockThreshold = DefaultConfig().LowStockThreshold
	}
	l := logger.With().Str("component", "mirror").Logger()
	return &Mirror{
		source:   source,
		config:   config,
		logger:   &l,
		stopChan: make(chan struct{}),
	}
}

// Refresh fetches the four collections concurrently and, if every fetch
// succeeds, replaces the snapshot and recomputes the summary in one step.
// On any failure the previous snapshot is left untouched and the error is
// recorded as the transient-error flag. No retry happens within the call.
func (m *Mirror) Refresh(ctx context.Context) error {
	start := time.Now()

	var (
		products []backend.Product
		sales    []backend.Sale
		stocks   []backend.StockLevel
		virtual  []backend.StockSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = m.source.Products(gctx); err != nil {
			refreshFailures.WithLabelValues("products").Inc()
			return err
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sales, err = m.source.Sales(gctx); err != nil {
			refreshFailures.WithLabelValues("sales").Inc()
			return err
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stocks, err = m.source.StockLevels(gctx); err != nil {
			refreshFailures.WithLabelValues("stock_levels").Inc()
			return err
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if virtual, err = m.source.VirtualStock(gctx); err != nil {
			refreshFailures.WithLabelValues("virtual_stock").Inc()
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		m.setErr(err)
		m.logger.Error().Err(err).Msg("Refresh failed, keeping previous snapshot")
		return err
	}

	for _, s := range virtual {
		if !s.Consistent() {
			m.logger.Warn().
				Str("sku", s.SKU).
				Int("on_hand", s.StockOnHand).
				Int("virtual", s.VirtualStock).
				Int("pending", s.PendingOrdersQuantity).
				Msg("Virtual stock does not reconcile")
		}
	}

	snap := &Snapshot{
		Products:     products,
		Sales:        sales,
		StockLevels:  stocks,
		VirtualStock: virtual,
		Summary:      buildSummary(products, sales, stocks, m.config.LowStockThreshold),
		RefreshedAt:  start,
	}
	m.snapshot.Store(snap)
	m.setErr(nil)
	observeRefresh(start)

	m.logger.Debug().
		Int("products", len(products)).
		Int("sales", len(sales)).
		Dur("took", time.Since(start)).
		Msg("Snapshot refreshed")
	return nil
}

// Snapshot returns the latest snapshot, or nil before the first
// successful refresh
func (m *Mirror) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

// LastError returns the transient error from the most recent refresh,
// or nil when the last refresh succeeded
func (m *Mirror) LastError() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	return m.lastErr
}

func (m *Mirror) setErr(err error) {
	m.errMu.Lock()
	m.lastErr = err
	m.errMu.Unlock()
}

// Start runs one immediate refresh and then refreshes on the configured
// cadence until the context is cancelled or Stop is called
func (m *Mirror) Start(ctx context.Context) {
	m.logger.Info().Dur("interval", m.config.Interval).Msg("Starting refresh loop")

	if err := m.Refresh(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("Initial refresh failed")
	}

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Refresh loop stopping (context cancelled)")
			return
		case <-m.stopChan:
			m.logger.Info().Msg("Refresh loop stopping (stop signal)")
			return
		case <-ticker.C:
			// Ticks refresh unconditionally; errors only flip the
			// transient flag.
			_ = m.Refresh(ctx)
		}
	}
}

// Stop signals the refresh loop to stop. Safe to call more than once.
func (m *Mirror) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

// buildSummary derives the dashboard aggregates from the fetched
// collections. Sales whose SKU has no matching product contribute zero
// revenue and no category count.
func buildSummary(products []backend.Product, sales []backend.Sale, stocks []backend.StockLevel, lowStockThreshold int) Summary {
	bySKU := make(map[string]backend.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	summary := Summary{
		TotalProducts:   len(products),
		TotalSales:      len(sales),
		SalesByCategory: make(map[string]int),
	}

	// Every catalog category appears, even with zero sales
	for _, p := range products {
		if _, ok := summary.SalesByCategory[p.Category]; !ok {
			summary.SalesByCategory[p.Category] = 0
		}
	}

	for _, sale := range sales {
		product, ok := bySKU[sale.SKU]
		if !ok {
			orphanSales.Inc()
			continue
		}
		summary.TotalRevenue += product.Price * float64(sale.Quantity)
		summary.SalesByCategory[product.Category]++
	}

	for _, stock := range stocks {
		if stock.StockOnHand < lowStockThreshold {
			summary.LowStockItems++
		}
	}

	return summary
}
