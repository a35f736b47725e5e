package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/session"
)

// fakeCollab scripts the receive and analysis calls
type fakeCollab struct {
	receiveResult *backend.ReceiveResult
	receiveErr    error
	analysis      *backend.AnalysisResult
	analysisErr   error

	receiveCalls  int
	analysisCalls int

	// block, when set, holds the receive call open until released
	block chan struct{}
}

func (f *fakeCollab) ReceiveAllPending(ctx context.Context) (*backend.ReceiveResult, error) {
	f.receiveCalls++
	if f.block != nil {
		<-f.block
	}
	return f.receiveResult, f.receiveErr
}

func (f *fakeCollab) Analysis(ctx context.Context) (*backend.AnalysisResult, error) {
	f.analysisCalls++
	return f.analysis, f.analysisErr
}

// fakeStore holds the recommendation the ledger projects
type fakeStore struct {
	analysis *backend.AnalysisResult
}

func (f *fakeStore) Analysis() *backend.AnalysisResult     { return f.analysis }
func (f *fakeStore) SetAnalysis(a *backend.AnalysisResult) { f.analysis = a }

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	return f.err
}

// TestLedgerTotals tests aggregation over the projected orders
func TestLedgerTotals(t *testing.T) {
	store := &fakeStore{analysis: &backend.AnalysisResult{
		OrdersPlaced: []backend.Order{
			{OrderID: "ORD-1", SKU: "SKU-1", Quantity: 40, EstimatedCost: 500},
			{OrderID: "ORD-2", SKU: "SKU-2", Quantity: 25, EstimatedCost: 75.5},
		},
	}}
	l := New(&fakeCollab{}, store, &fakeRefresher{}, session.NewEventLog(0), nil)

	totals := l.Totals()
	assert.Equal(t, 2, totals.Orders)
	assert.Equal(t, 65, totals.Units)
	assert.InDelta(t, 575.5, totals.EstimatedCost, 0.001)
}

// TestLedgerOrdersEmptyBeforeAnalysis tests the projection before any
// recommendation exists
func TestLedgerOrdersEmptyBeforeAnalysis(t *testing.T) {
	l := New(&fakeCollab{}, &fakeStore{}, &fakeRefresher{}, session.NewEventLog(0), nil)

	assert.Nil(t, l.Orders())
	assert.Equal(t, Totals{}, l.Totals())
	assert.False(t, l.Receiving())
}

// TestReceiveAllPendingSuccess tests the happy path: per-order events,
// a mirror refresh, and a re-fetched recommendation
func TestReceiveAllPendingSuccess(t *testing.T) {
	collab := &fakeCollab{
		receiveResult: &backend.ReceiveResult{
			Success: true,
			Message: "Received 2 pending order(s)",
			Orders: []backend.ReceivedOrder{
				{SKU: "SKU-1", Quantity: 40, NewStock: 70},
				{SKU: "SKU-2", Quantity: 25, NewStock: 145},
			},
		},
		analysis: &backend.AnalysisResult{},
	}
	store := &fakeStore{analysis: &backend.AnalysisResult{
		OrdersPlaced: []backend.Order{{SKU: "SKU-1"}, {SKU: "SKU-2"}},
	}}
	refresher := &fakeRefresher{}
	events := session.NewEventLog(0)
	l := New(collab, store, refresher, events, nil)

	result, err := l.ReceiveAllPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Orders, 2)

	assert.Equal(t, 1, refresher.calls)
	assert.Equal(t, 1, collab.analysisCalls)
	// The stale projection was replaced by the post-receive fetch
	assert.Empty(t, store.analysis.OrdersPlaced)
	assert.False(t, l.Receiving())

	entries := events.Entries()
	require.Len(t, entries, 4) // announce + summary + one per order
	assert.Equal(t, session.KindSystem, entries[0].Kind)
	assert.Equal(t, "Received 2 pending order(s) - stock updated", entries[1].Text)
	assert.Equal(t, "SKU-1: +40 units, stock now 70", entries[2].Text)
	assert.Equal(t, "SKU-2: +25 units, stock now 145", entries[3].Text)
}

// TestReceiveAllPendingFailure tests that a failed receive logs one error
// and leaves the projection alone
func TestReceiveAllPendingFailure(t *testing.T) {
	collab := &fakeCollab{receiveErr: errors.New("receive pending orders rejected: nothing pending")}
	store := &fakeStore{analysis: &backend.AnalysisResult{
		OrdersPlaced: []backend.Order{{SKU: "SKU-1"}},
	}}
	refresher := &fakeRefresher{}
	events := session.NewEventLog(0)
	l := New(collab, store, refresher, events, nil)

	_, err := l.ReceiveAllPending(context.Background())
	require.Error(t, err)

	assert.Zero(t, refresher.calls)
	assert.Zero(t, collab.analysisCalls)
	assert.Len(t, store.analysis.OrdersPlaced, 1)
	assert.Equal(t, 1, events.CountKind(session.KindError))
	assert.False(t, l.Receiving())
}

// TestReceiveAllPendingGuard tests that overlapping calls are rejected
// without touching the backend
func TestReceiveAllPendingGuard(t *testing.T) {
	collab := &fakeCollab{
		receiveResult: &backend.ReceiveResult{Success: true, Message: "Received 0 pending order(s)"},
		analysis:      &backend.AnalysisResult{},
		block:         make(chan struct{}),
	}
	l := New(collab, &fakeStore{}, &fakeRefresher{}, session.NewEventLog(0), nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := l.ReceiveAllPending(context.Background())
		firstDone <- err
	}()

	require.Eventually(t, l.Receiving, time.Second, time.Millisecond)

	_, err := l.ReceiveAllPending(context.Background())
	assert.ErrorIs(t, err, ErrReceiveInFlight)
	assert.Equal(t, 1, collab.receiveCalls)

	close(collab.block)
	require.NoError(t, <-firstDone)
	assert.False(t, l.Receiving())
}

// TestReceiveAnalysisRefreshFailure tests that a failed post-receive
// analysis fetch is reported but does not fail the receive
func TestReceiveAnalysisRefreshFailure(t *testing.T) {
	collab := &fakeCollab{
		receiveResult: &backend.ReceiveResult{Success: true, Message: "Received 1 pending order(s)"},
		analysisErr:   errors.New("analysis unavailable"),
	}
	stale := &backend.AnalysisResult{OrdersPlaced: []backend.Order{{SKU: "SKU-1"}}}
	store := &fakeStore{analysis: stale}
	events := session.NewEventLog(0)
	l := New(collab, store, &fakeRefresher{}, events, nil)

	_, err := l.ReceiveAllPending(context.Background())
	require.NoError(t, err)

	// Projection stays stale rather than being cleared
	assert.Same(t, stale, store.analysis)
	assert.Equal(t, 1, events.CountKind(session.KindError))
}
