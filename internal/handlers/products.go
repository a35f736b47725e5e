package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

// UpdateProduct forwards a partial product update to the backend, then
// refreshes the mirror so the edited fields show up without waiting for
// the next polling cycle
// PUT /api/products/:sku
func UpdateProduct(c *gin.Context) {
	sku := c.Param("sku")
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	var update backend.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if update.Name == nil && update.Category == nil && update.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	product, err := client.UpdateProduct(c.Request.Context(), sku, update)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := store.Refresh(c.Request.Context()); err != nil {
		// The update itself landed; the next cycle will catch up.
		c.JSON(http.StatusOK, gin.H{"product": product, "refresh_error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}
