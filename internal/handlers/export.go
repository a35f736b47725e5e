package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/report"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

// ExportStockComparison streams the reconciliation view and current
// orders as an Excel workbook
// GET /api/stocks/comparison/export
func ExportStockComparison(c *gin.Context) {
	snap := store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No snapshot available yet"})
		return
	}

	rows := stock.Comparison(stock.Relevant(snap.VirtualStock, stockConfig), stockConfig)

	filename := fmt.Sprintf("stock-comparison-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := report.WriteStockComparison(c.Writer, rows, orders.Orders()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
