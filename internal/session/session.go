// Package session runs the AI-assisted restocking workflow: activation,
// a delayed analysis fetch, conditional automatic order placement, and
// settlement. Every external call failure is isolated at its step
// boundary and the processing flag is always cleared exactly once.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FlorisRimb/AI-Agent-Xiatech/internal/backend"
)

// Phase is the lifecycle stage of one restocking session
type Phase int

const (
	// PhaseIdle means no workflow has started yet.
	PhaseIdle Phase = iota

	// PhaseProcessing covers activation through the delayed analysis fetch.
	PhaseProcessing

	// PhaseAnalysisReady means the recommendation has been stored.
	PhaseAnalysisReady

	// PhaseRestocking means automatic order placement is underway.
	PhaseRestocking

	// PhaseSettled means the session has finished, successfully or not.
	PhaseSettled
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProcessing:
		return "processing"
	case PhaseAnalysisReady:
		return "analysis-ready"
	case PhaseRestocking:
		return "restocking"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Collaborator is the slice of the backend the workflow drives
type Collaborator interface {
	QueryAgent(ctx context.Context) (*backend.QueryAck, error)
	Analysis(ctx context.Context) (*backend.AnalysisResult, error)
	History(ctx context.Context) ([]backend.HistoryEntry, error)
	AutoRestock(ctx context.Context) (*backend.RestockResult, error)
}

// Refresher triggers one refresh cycle of the mirrored snapshot
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Config holds session settings
type Config struct {
	// AnalysisDelay is how long to wait for the backend's asynchronous
	// analysis before fetching the result.
	AnalysisDelay time.Duration

	// HistoryLimit caps how many model exchanges are replayed into the
	// event log; 0 means all of them.
	HistoryLimit int

	// MaxEvents caps the event log; 0 means unbounded.
	MaxEvents int

	// Wait overrides the delay mechanism. Nil uses a timer honoring ctx.
	Wait func(ctx context.Context, d time.Duration) error
}

// DefaultConfig returns session defaults matching the dashboard view
func DefaultConfig() Config {
	return Config{
		AnalysisDelay: 15 * time.Second,
	}
}

// State is a read-only snapshot of one session's progress
type State struct {
	ID         string                  `json:"id"`
	Phase      string                  `json:"phase"`
	Processing bool                    `json:"processing"`
	Analysis   *backend.AnalysisResult `json:"analysis,omitempty"`
	StartedAt  time.Time               `json:"started_at,omitempty"`
}

// Session is one run of the activate, analyze, restock, settle workflow.
// It is owned by the manager that created it; its state is mutated only
// by its own run goroutine.
type Session struct {
	id        string
	backend   Collaborator
	refresher Refresher
	config    Config
	logger    *zerolog.Logger
	events    *EventLog

	mu         sync.Mutex
	phase      Phase
	processing bool
	analysis   *backend.AnalysisResult
	startedAt  time.Time

	settleOnce sync.Once
	done       chan struct{}
}

func newSession(collab Collaborator, refresher Refresher, events *EventLog, config Config, logger *zerolog.Logger) *Session {
	id := newID("ses", 16)
	l := logger.With().Str("component", "session").Str("session_id", id).Logger()
	return &Session{
		id:        id,
		backend:   collab,
		refresher: refresher,
		config:    config,
		logger:    &l,
		events:    events,
		phase:     PhaseIdle,
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the session's progress
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:         s.id,
		Phase:      s.phase.String(),
		Processing: s.processing,
		Analysis:   s.analysis,
		StartedAt:  s.startedAt,
	}
}

// Phase returns the current lifecycle stage
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Processing reports whether the session still holds the processing flag
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// Settled reports whether the session has finished
func (s *Session) Settled() bool {
	return s.Phase() == PhaseSettled
}

// Done is closed when the session settles
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Analysis returns the stored recommendation, or nil before the delayed
// fetch has completed
func (s *Session) Analysis() *backend.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// SetAnalysis replaces the stored recommendation wholesale
func (s *Session) SetAnalysis(a *backend.AnalysisResult) {
	s.mu.Lock()
	s.analysis = a
	s.mu.Unlock()
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// run executes the whole workflow. It must be called exactly once.
func (s *Session) run(ctx context.Context) {
	tracer := otel.Tracer("session")
	ctx, span := tracer.Start(ctx, "session.run", trace.WithAttributes(
		attribute.String("session.id", s.id),
	))
	defer span.End()

	s.mu.Lock()
	s.phase = PhaseProcessing
	s.processing = true
	s.startedAt = time.Now()
	s.mu.Unlock()
	sessionsStarted.Inc()

	s.events.Append(KindSystem, "Restocking assistant activated - analysis in progress")
	s.logger.Info().Msg("Session activated")

	ack, err := s.backend.QueryAgent(ctx)
	if err != nil {
		s.events.Append(KindError, fmt.Sprintf("Inference query failed: %v", err))
		s.logger.Error().Err(err).Msg("Inference query failed")
		s.settle(ctx, "error")
		return
	}
	s.events.Append(KindResponse, ack.Response)

	// The backend analyzes asynchronously; there is no completion signal
	// to poll, only a fixed latency to honor.
	if err := s.wait(ctx); err != nil {
		s.events.Append(KindError, fmt.Sprintf("Analysis wait aborted: %v", err))
		s.logger.Warn().Err(err).Msg("Analysis wait aborted")
		s.settle(ctx, "error")
		return
	}

	s.continuation(ctx)
}

func (s *Session) wait(ctx context.Context) error {
	if s.config.Wait != nil {
		return s.config.Wait(ctx, s.config.AnalysisDelay)
	}
	timer := time.NewTimer(s.config.AnalysisDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// continuation runs once, after the analysis delay. Each step's failure
// is caught at the step boundary; later steps run unless their
// prerequisite data is missing. The settle call in the deferred cleanup
// runs on every path.
func (s *Session) continuation(ctx context.Context) {
	outcome := "error"
	defer func() {
		s.settle(ctx, outcome)
	}()

	analysis, err := s.backend.Analysis(ctx)
	if err != nil {
		// Without the analysis nothing downstream can run.
		s.events.Append(KindError, fmt.Sprintf("Analysis fetch failed: %v", err))
		s.logger.Error().Err(err).Msg("Analysis fetch failed")
		return
	}
	s.SetAnalysis(analysis)
	s.setPhase(PhaseAnalysisReady)

	history, err := s.backend.History(ctx)
	switch {
	case err != nil:
		s.events.Append(KindError, fmt.Sprintf("History fetch failed: %v", err))
		s.logger.Error().Err(err).Msg("History fetch failed")
	case len(history) > 0:
		// Replay at most HistoryLimit of the most recent exchanges.
		if limit := s.config.HistoryLimit; limit > 0 && len(history) > limit {
			history = history[len(history)-limit:]
		}
		for _, item := range history {
			s.events.Append(KindQuery, item.Query)
			s.events.Append(KindResponse, item.Response)
		}
	default:
		// Degraded mode: the inference collaborator produced no
		// history (unavailable or rate limited). Not an error.
		s.events.Append(KindResponse, "Analysis running without inference (no model history available)")
		s.logger.Info().Msg("Operating without inference history")
	}

	lowStock := analysis.Summary.TotalLowStock
	s.events.Append(KindSuccess, fmt.Sprintf("Detection complete: %d low-stock product(s) found", lowStock))

	if lowStock > 0 {
		s.setPhase(PhaseRestocking)
		s.events.Append(KindResponse, "Placing restock orders automatically")
		s.logger.Info().Int("low_stock", lowStock).Msg("Triggering automatic restock")

		result, err := s.backend.AutoRestock(ctx)
		if err != nil {
			// Not retried; the next session can try again.
			restockAttempts.WithLabelValues("failure").Inc()
			s.events.Append(KindError, fmt.Sprintf("Automatic restock failed: %v", err))
			s.logger.Error().Err(err).Msg("Automatic restock failed")
			return
		}

		restockAttempts.WithLabelValues("success").Inc()
		s.events.Append(KindSuccess, result.Message)

		// Re-fetch so the stored analysis reflects the orders just placed.
		refreshed, err := s.backend.Analysis(ctx)
		if err != nil {
			s.events.Append(KindError, fmt.Sprintf("Analysis refresh failed: %v", err))
			s.logger.Error().Err(err).Msg("Analysis refresh failed")
			return
		}
		s.SetAnalysis(refreshed)
		outcome = "restocked"
		return
	}

	s.events.Append(KindSuccess, "No action required - all stock levels are healthy")
	outcome = "no_action"
}

// settle clears the processing flag exactly once and triggers one refresh
// cycle so the mirror reflects whatever the session changed
func (s *Session) settle(ctx context.Context, outcome string) {
	s.settleOnce.Do(func() {
		if s.refresher != nil {
			if err := s.refresher.Refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Post-session refresh failed")
			}
		}

		s.mu.Lock()
		s.processing = false
		s.phase = PhaseSettled
		started := s.startedAt
		s.mu.Unlock()

		sessionsSettled.WithLabelValues(outcome).Inc()
		if !started.IsZero() {
			sessionDuration.Observe(time.Since(started).Seconds())
		}
		s.logger.Info().Str("outcome", outcome).Msg("Session settled")
		close(s.done)
	})
}
