package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

// fakeSource serves scripted collections and per-collection errors
type fakeSource struct {
	products []backend.Product
	sales    []backend.Sale
	stocks   []backend.StockLevel
	virtual  []backend.StockSnapshot

	productsErr error
	salesErr    error
	stocksErr   error
	virtualErr  error
}

func (f *fakeSource) Products(ctx context.Context) ([]backend.Product, error) {
	return f.products, f.productsErr
}

func (f *fakeSource) Sales(ctx context.Context) ([]backend.Sale, error) {
	return f.sales, f.salesErr
}

func (f *fakeSource) StockLevels(ctx context.Context) ([]backend.StockLevel, error) {
	return f.stocks, f.stocksErr
}

func (f *fakeSource) VirtualStock(ctx context.Context) ([]backend.StockSnapshot, error) {
	return f.virtual, f.virtualErr
}

func testMirror(source Source) *Mirror {
	nop := zerolog.Nop()
	return New(source, Config{Interval: 5 * time.Second, LowStockThreshold: 50}, &nop)
}

func catalogSource() *fakeSource {
	return &fakeSource{
		products: []backend.Product{
			{SKU: "SKU-1", Name: "Espresso Beans", Category: "Coffee", Price: 12.50},
			{SKU: "SKU-2", Name: "Oat Milk", Category: "Dairy Alternatives", Price: 3.00},
			{SKU: "SKU-3", Name: "Filter Papers", Category: "Accessories", Price: 5.00},
		},
		sales: []backend.Sale{
			{TransactionID: "T-1", SKU: "SKU-1", Quantity: 2},
			{TransactionID: "T-2", SKU: "SKU-2", Quantity: 4},
			{TransactionID: "T-3", SKU: "SKU-1", Quantity: 1},
		},
		stocks: []backend.StockLevel{
			{SKU: "SKU-1", StockOnHand: 30},
			{SKU: "SKU-2", StockOnHand: 120},
			{SKU: "SKU-3", StockOnHand: 49},
		},
		virtual: []backend.StockSnapshot{
			{SKU: "SKU-1", StockOnHand: 30, VirtualStock: 80, PendingOrdersQuantity: 50},
		},
	}
}

// TestMirrorRefreshBuildsSummary tests the derived aggregates after one
// successful refresh
func TestMirrorRefreshBuildsSummary(t *testing.T) {
	m := testMirror(catalogSource())

	require.NoError(t, m.Refresh(context.Background()))
	require.NoError(t, m.LastError())

	snap := m.Snapshot()
	require.NotNil(t, snap)
	assert.Len(t, snap.Products, 3)
	assert.False(t, snap.RefreshedAt.IsZero())

	sum := snap.Summary
	assert.Equal(t, 3, sum.TotalProducts)
	assert.Equal(t, 3, sum.TotalSales)
	assert.InDelta(t, 12.50*3+3.00*4, sum.TotalRevenue, 0.001)
	assert.Equal(t, 2, sum.LowStockItems) // SKU-1 at 30, SKU-3 at 49

	// Every catalog category appears, including the one with no sales
	assert.Equal(t, map[string]int{
		"Coffee":             2,
		"Dairy Alternatives": 1,
		"Accessories":        0,
	}, sum.SalesByCategory)
}

// TestMirrorOrphanSalesSkipped tests that sales with no matching product
// contribute neither revenue nor category counts
func TestMirrorOrphanSalesSkipped(t *testing.T) {
	source := catalogSource()
	source.sales = append(source.sales, backend.Sale{
		TransactionID: "T-ORPHAN", SKU: "SKU-GONE", Quantity: 100,
	})
	m := testMirror(source)

	require.NoError(t, m.Refresh(context.Background()))

	sum := m.Snapshot().Summary
	assert.Equal(t, 4, sum.TotalSales) // orphan still counts as a transaction
	assert.InDelta(t, 12.50*3+3.00*4, sum.TotalRevenue, 0.001)
	assert.NotContains(t, sum.SalesByCategory, "")
}

// TestMirrorFailureKeepsLastSnapshot tests that a failed refresh records
// the error without touching the previous snapshot
func TestMirrorFailureKeepsLastSnapshot(t *testing.T) {
	source := catalogSource()
	m := testMirror(source)

	require.NoError(t, m.Refresh(context.Background()))
	before := m.Snapshot()

	source.salesErr = errors.New("backend timeout")
	err := m.Refresh(context.Background())
	require.Error(t, err)
	assert.Error(t, m.LastError())

	after := m.Snapshot()
	assert.Same(t, before, after)
	assert.Equal(t, before.RefreshedAt, after.RefreshedAt)
}

// TestMirrorRecoveryClearsError tests that the transient-error flag is
// cleared by the next successful refresh
func TestMirrorRecoveryClearsError(t *testing.T) {
	source := catalogSource()
	m := testMirror(source)

	source.virtualErr = errors.New("connection reset")
	require.Error(t, m.Refresh(context.Background()))
	assert.Nil(t, m.Snapshot())

	source.virtualErr = nil
	require.NoError(t, m.Refresh(context.Background()))
	assert.NoError(t, m.LastError())
	assert.NotNil(t, m.Snapshot())
}

// TestMirrorRefreshIsIdempotent tests that repeated refreshes with the
// same data produce equal summaries
func TestMirrorRefreshIsIdempotent(t *testing.T) {
	m := testMirror(catalogSource())

	require.NoError(t, m.Refresh(context.Background()))
	first := m.Snapshot().Summary

	require.NoError(t, m.Refresh(context.Background()))
	second := m.Snapshot().Summary

	assert.Equal(t, first, second)
}

// TestMirrorStartStop tests the polling loop shuts down cleanly
func TestMirrorStartStop(t *testing.T) {
	nop := zerolog.Nop()
	m := New(catalogSource(), Config{Interval: 10 * time.Millisecond, LowStockThreshold: 50}, &nop)

	done := make(chan struct{})
	go func() {
		m.Start(context.Background())
		close(done)
	}()

	// The loop refreshes immediately before the first tick
	assert.Eventually(t, func() bool { return m.Snapshot() != nil }, time.Second, 5*time.Millisecond)

	m.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("polling loop did not stop")
	}

	// Stop is safe to call again
	m.Stop()
}
