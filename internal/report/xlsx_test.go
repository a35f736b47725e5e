package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

// TestWriteStockComparison tests the workbook layout round trip
func TestWriteStockComparison(t *testing.T) {
	rows := []stock.Row{
		{
			StockSnapshot: backend.StockSnapshot{
				SKU: "SKU-1", ProductName: "Espresso Beans",
				StockOnHand: 30, VirtualStock: 70, PendingOrdersQuantity: 40,
			},
			UpliftPercent:    133,
			LowStock:         true,
			HasPendingOrders: true,
		},
	}
	orders := []backend.Order{
		{
			OrderID: "ORD-1", SKU: "SKU-1", ProductName: "Espresso Beans",
			Quantity: 40, EstimatedCost: 500,
			OrderDate: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStockComparison(&buf, rows, orders))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Stock Comparison", "Orders"}, f.GetSheetList())

	sku, err := f.GetCellValue("Stock Comparison", "A2")
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", sku)

	virtual, err := f.GetCellValue("Stock Comparison", "D2")
	require.NoError(t, err)
	assert.Equal(t, "70", virtual)

	orderID, err := f.GetCellValue("Orders", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", orderID)

	quantity, err := f.GetCellValue("Orders", "D2")
	require.NoError(t, err)
	assert.Equal(t, "40", quantity)
}

// TestWriteStockComparisonEmpty tests that empty inputs still produce a
// valid workbook with headers
func TestWriteStockComparisonEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStockComparison(&buf, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Stock Comparison", "A1")
	require.NoError(t, err)
	assert.Equal(t, "SKU", header)

	rowsIter, err := f.GetRows("Stock Comparison")
	require.NoError(t, err)
	assert.Len(t, rowsIter, 1)
}
