package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

// StockComparison returns the reconciliation rows for products worth
// watching: anything with pending orders or on-hand stock below the
// relevance threshold. Pass ?all=true to skip the relevance filter.
// GET /api/stocks/comparison
func StockComparison(c *gin.Context) {
	snap := store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No snapshot available yet"})
		return
	}

	snapshots := snap.VirtualStock
	all, _ := strconv.ParseBool(c.Query("all"))
	if !all {
		snapshots = stock.Relevant(snapshots, stockConfig)
	}

	rows := stock.Comparison(snapshots, stockConfig)
	c.JSON(http.StatusOK, gin.H{
		"rows":  rows,
		"total": len(rows),
	})
}
