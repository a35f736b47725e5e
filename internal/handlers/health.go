package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// HealthCheck handles the health check endpoint
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}

	// The mirror tracks backend reachability through its refresh loop
	if store != nil {
		if store.LastError() != nil {
			response.Backend = "unreachable"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		if store.Snapshot() != nil {
			response.Backend = "connected"
		} else {
			response.Backend = "pending"
		}
	} else {
		response.Backend = "not configured"
	}

	c.JSON(http.StatusOK, response)
}
