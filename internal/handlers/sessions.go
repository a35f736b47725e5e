package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/session"
)

// ActivateSession starts the automated restocking workflow. While a
// session is still running the request is rejected; once it has settled
// a new one may start. The workflow runs on the manager's lifecycle
// context so it is not cut short when this response is written.
// POST /api/sessions
func ActivateSession(c *gin.Context) {
	s, err := sessions.Activate()
	if err != nil {
		if errors.Is(err, session.ErrSessionActive) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":    s.ID(),
		"phase": s.Phase().String(),
	})
}

// SessionState returns the current session's progress, or the idle phase
// before first activation
// GET /api/sessions/current
func SessionState(c *gin.Context) {
	c.JSON(http.StatusOK, sessions.State())
}

// SessionEvents returns the append-only event log oldest first
// GET /api/sessions/events
func SessionEvents(c *gin.Context) {
	entries := sessions.Events().Entries()
	c.JSON(http.StatusOK, gin.H{
		"events": entries,
		"total":  len(entries),
	})
}
