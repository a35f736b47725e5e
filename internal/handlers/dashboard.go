package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DashboardResponse bundles the mirrored snapshot with view status
type DashboardResponse struct {
	Snapshot     any    `json:"snapshot"`
	RefreshError string `json:"refresh_error,omitempty"`
}

// Dashboard returns the latest mirrored snapshot and the transient
// refresh-error flag. A failed refresh degrades the view, it never
// clears it: the last good snapshot stays visible alongside the error.
// GET /api/dashboard
func Dashboard(c *gin.Context) {
	response := DashboardResponse{}

	snap := store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No snapshot available yet"})
		return
	}
	response.Snapshot = snap

	if err := store.LastError(); err != nil {
		response.RefreshError = err.Error()
	}

	c.JSON(http.StatusOK, response)
}

// Summary returns only the derived aggregates of the latest snapshot
// GET /api/dashboard/summary
func Summary(c *gin.Context) {
	snap := store.Snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No snapshot available yet"})
		return
	}

	c.JSON(http.StatusOK, snap.Summary)
}
