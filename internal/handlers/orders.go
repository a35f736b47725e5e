package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/ledger"
)

// ListOrders returns the orders from the latest recommendation together
// with their aggregates
// GET /api/orders
func ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"orders":    orders.Orders(),
		"totals":    orders.Totals(),
		"receiving": orders.Receiving(),
	})
}

// ReceiveOrders settles every pending order through the backend. A call
// made while one is already in flight is rejected and changes nothing.
// POST /api/orders/receive-all-pending
func ReceiveOrders(c *gin.Context) {
	result, err := orders.ReceiveAllPending(c.Request.Context())
	if err != nil {
		if errors.Is(err, ledger.ErrReceiveInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
