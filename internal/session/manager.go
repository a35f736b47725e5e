package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

// ErrSessionActive is returned when activation is requested while a
// session is still running
var ErrSessionActive = errors.New("a restocking session is already active")

// Manager owns the view's session lifecycle and event log. At most one
// session runs at a time; a new one may start once the previous session
// has settled. Sessions run on the lifecycle context the manager was
// created with, so they outlive the request that activated them.
type Manager struct {
	baseCtx   context.Context
	collab    Collaborator
	refresher Refresher
	config    Config
	logger    *zerolog.Logger
	events    *EventLog

	mu      sync.Mutex
	current *Session
}

// NewManager creates a session manager. The context bounds every session
// the manager will run; cancel it to abort an in-flight workflow.
func NewManager(ctx context.Context, collab Collaborator, refresher Refresher, config Config, logger *zerolog.Logger) *Manager {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if config.AnalysisDelay <= 0 {
		config.AnalysisDelay = DefaultConfig().AnalysisDelay
	}
	return &Manager{
		baseCtx:   ctx,
		collab:    collab,
		refresher: refresher,
		config:    config,
		logger:    logger,
		events:    NewEventLog(config.MaxEvents),
	}
}

// Events returns the view's shared event log
func (m *Manager) Events() *EventLog {
	return m.events
}

// Activate starts a new session and runs its workflow in the background
// on the manager's lifecycle context. It returns ErrSessionActive while
// a previous session has not settled.
func (m *Manager) Activate() (*Session, error) {
	m.mu.Lock()
	if m.current != nil && !m.current.Settled() {
		m.mu.Unlock()
		return nil, ErrSessionActive
	}
	s := newSession(m.collab, m.refresher, m.events, m.config, m.logger)
	m.current = s
	m.mu.Unlock()

	go s.run(m.baseCtx)
	return s, nil
}

// Current returns the most recent session, or nil before first activation
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// State returns the current session's progress. Before any activation it
// reports the idle phase.
func (m *Manager) State() State {
	if s := m.Current(); s != nil {
		return s.State()
	}
	return State{Phase: PhaseIdle.String()}
}

// Analysis returns the latest stored recommendation, or nil
func (m *Manager) Analysis() *backend.AnalysisResult {
	if s := m.Current(); s != nil {
		return s.Analysis()
	}
	return nil
}

// SetAnalysis replaces the current session's stored recommendation. It is
// a no-op before first activation.
func (m *Manager) SetAnalysis(a *backend.AnalysisResult) {
	if s := m.Current(); s != nil {
		s.SetAnalysis(a)
	}
}
