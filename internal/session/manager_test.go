package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

func newTestManager(fb *fakeBackend, wait func(context.Context, time.Duration) error) *Manager {
	nop := zerolog.Nop()
	return NewManager(context.Background(), fb, &fakeRefresher{}, Config{
		AnalysisDelay: 15 * time.Second,
		Wait:          wait,
	}, &nop)
}

// TestManagerIdleBeforeActivation tests the reported state before any
// session has run
func TestManagerIdleBeforeActivation(t *testing.T) {
	m := newTestManager(&fakeBackend{}, immediateWait)

	state := m.State()
	assert.Equal(t, "idle", state.Phase)
	assert.False(t, state.Processing)
	assert.Nil(t, m.Current())
	assert.Nil(t, m.Analysis())
}

// TestManagerRejectsConcurrentActivation tests that a second activation
// is refused while the first session is still running
func TestManagerRejectsConcurrentActivation(t *testing.T) {
	release := make(chan struct{})
	blockingWait := func(ctx context.Context, d time.Duration) error {
		<-release
		return nil
	}
	m := newTestManager(&fakeBackend{analysis: analysisWithLowStock(0)}, blockingWait)

	first, err := m.Activate()
	require.NoError(t, err)

	_, err = m.Activate()
	assert.ErrorIs(t, err, ErrSessionActive)

	close(release)
	select {
	case <-first.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not settle")
	}

	// Once settled, a new session may start
	second, err := m.Activate()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	<-second.Done()
}

// TestManagerSetAnalysisBeforeActivation tests that storing a
// recommendation with no session is a harmless no-op
func TestManagerSetAnalysisBeforeActivation(t *testing.T) {
	m := newTestManager(&fakeBackend{}, immediateWait)

	m.SetAnalysis(&backend.AnalysisResult{})
	assert.Nil(t, m.Analysis())
}

// TestManagerStateTracksSession tests that the manager surfaces the
// settled session's state and analysis
func TestManagerStateTracksSession(t *testing.T) {
	fb := &fakeBackend{analysis: analysisWithLowStock(0)}
	m := newTestManager(fb, immediateWait)

	s, err := m.Activate()
	require.NoError(t, err)

	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not settle")
	}

	state := m.State()
	assert.Equal(t, "settled", state.Phase)
	assert.Equal(t, s.ID(), state.ID)
	assert.False(t, state.Processing)
	require.NotNil(t, m.Analysis())
}
