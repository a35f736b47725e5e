// Package report exports dashboard views as Excel workbooks
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

const (
	stockSheet  = "Stock Comparison"
	ordersSheet = "Orders"
)

var stockHeader = []string{
	"SKU", "Product", "Stock On Hand", "Virtual Stock",
	"Pending Orders", "Uplift %", "Low Stock",
}

var ordersHeader = []string{
	"Order ID", "SKU", "Product", "Quantity", "Estimated Cost", "Order Date",
}

// WriteStockComparison writes the reconciliation rows and the current
// orders into a two-sheet workbook
func WriteStockComparison(w io.Writer, rows []stock.Row, orders []backend.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for i, h := range stockHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(stockSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.SKU,
			row.ProductName,
			row.StockOnHand,
			row.VirtualStock,
			row.PendingOrdersQuantity,
			row.UpliftPercent,
			row.LowStock,
		}
		if err := writeRow(f, stockSheet, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(ordersSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	for i, h := range ordersHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ordersSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, order := range orders {
		values := []any{
			order.OrderID,
			order.SKU,
			order.ProductName,
			order.Quantity,
			order.EstimatedCost,
			order.OrderDate.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, ordersSheet, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNumber int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNumber)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNumber, err)
		}
	}
	return nil
}
