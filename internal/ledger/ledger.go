// Package ledger presents the orders placed by the automated workflow
// and settles them through the backend's bulk-receive operation. The
// client's view of orders is a read-only, possibly-stale projection;
// the backend owns the records.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/session"
)

// ErrReceiveInFlight is returned when a bulk receive is already running
var ErrReceiveInFlight = errors.New("a receive operation is already in flight")

// Collaborator is the slice of the backend the ledger drives
type Collaborator interface {
	ReceiveAllPending(ctx context.Context) (*backend.ReceiveResult, error)
	Analysis(ctx context.Context) (*backend.AnalysisResult, error)
}

// AnalysisStore holds the view's latest recommendation
type AnalysisStore interface {
	Analysis() *backend.AnalysisResult
	SetAnalysis(*backend.AnalysisResult)
}

// Refresher triggers one refresh cycle of the mirrored snapshot
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Totals aggregates the projected orders
type Totals struct {
	Orders        int     `json:"orders"`
	Units         int     `json:"units"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// Ledger is the client-side projection of automated restock orders
type Ledger struct {
	collab    Collaborator
	store     AnalysisStore
	refresher Refresher
	events    *session.EventLog
	logger    *zerolog.Logger

	receiving atomic.Bool
}

// New creates a ledger over the given collaborator and analysis store
func New(collab Collaborator, store AnalysisStore, refresher Refresher, events *session.EventLog, logger *zerolog.Logger) *Ledger {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "ledger").Logger()
	return &Ledger{
		collab:    collab,
		store:     store,
		refresher: refresher,
		events:    events,
		logger:    &l,
	}
}

// Orders returns the orders from the latest recommendation, in the order
// the backend reported them
func (l *Ledger) Orders() []backend.Order {
	analysis := l.store.Analysis()
	if analysis == nil {
		return nil
	}
	return analysis.OrdersPlaced
}

// Totals returns aggregate counts over the projected orders
func (l *Ledger) Totals() Totals {
	var t Totals
	for _, o := range l.Orders() {
		t.Orders++
		t.Units += o.Quantity
		t.EstimatedCost += o.EstimatedCost
	}
	return t
}

// Receiving reports whether a bulk receive is in flight
func (l *Ledger) Receiving() bool {
	return l.receiving.Load()
}

// ReceiveAllPending settles every pending order through the backend,
// then refreshes the mirror and the recommendation so both reflect the
// settlement. At most one call runs at a time; a call made while one is
// in flight returns ErrReceiveInFlight and changes nothing. Failures are
// logged once and never retried automatically.
func (l *Ledger) ReceiveAllPending(ctx context.Context) (*backend.ReceiveResult, error) {
	if !l.receiving.CompareAndSwap(false, true) {
		return nil, ErrReceiveInFlight
	}
	defer l.receiving.Store(false)

	l.events.Append(session.KindSystem, "Receiving pending orders")
	l.logger.Info().Msg("Receiving pending orders")

	result, err := l.collab.ReceiveAllPending(ctx)
	if err != nil {
		l.events.Append(session.KindError, fmt.Sprintf("Receiving orders failed: %v", err))
		l.logger.Error().Err(err).Msg("Receiving orders failed")
		return nil, err
	}

	l.events.Append(session.KindSuccess, fmt.Sprintf("%s - stock updated", result.Message))
	for _, order := range result.Orders {
		l.events.Append(session.KindSuccess,
			fmt.Sprintf("%s: +%d units, stock now %d", order.SKU, order.Quantity, order.NewStock))
	}

	// Settlement changed on-hand stock and drained pending orders; pull
	// a fresh snapshot and recommendation before anyone reads the view.
	if l.refresher != nil {
		if err := l.refresher.Refresh(ctx); err != nil {
			l.logger.Warn().Err(err).Msg("Post-receive refresh failed")
		}
	}
	if analysis, err := l.collab.Analysis(ctx); err != nil {
		l.events.Append(session.KindError, fmt.Sprintf("Analysis refresh failed: %v", err))
		l.logger.Error().Err(err).Msg("Analysis refresh failed")
	} else {
		l.store.SetAnalysis(analysis)
	}

	l.logger.Info().Int("orders", len(result.Orders)).Msg("Pending orders received")
	return result, nil
}
