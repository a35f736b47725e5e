package handlers

import (
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/ledger"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/mirror"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/session"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/stock"
)

// Global instances (initialized by the application)
var (
	store       *mirror.Mirror
	sessions    *session.Manager
	orders      *ledger.Ledger
	client      *backend.Client
	stockConfig stock.Config
)

// Init wires the handlers to their collaborators.
// This should be called during application startup.
func Init(m *mirror.Mirror, sm *session.Manager, l *ledger.Ledger, c *backend.Client, cfg stock.Config) {
	store = m
	sessions = sm
	orders = l
	client = c
	stockConfig = cfg
}
