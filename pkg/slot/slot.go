// Package slot implements the per-persona interpretation state machine.
//
// A Slot owns exactly one SlotState. It moves Idle -> Loading on Trigger, and
// Loading -> Success/Error only when its single outstanding request settles.
// Slots never read or write each other's state.
package slot

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/pkg/classifier"
	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/input"
	"github.com/aretw0/dreamboard/pkg/ports"
)

// Slot drives one persona's request lifecycle.
type Slot struct {
	persona    domain.Persona
	input      input.Reader
	generator  ports.Generator
	credential string
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	observer   func(domain.SlotUpdate)
	nextID     func() string

	mu       sync.Mutex
	state    domain.SlotState
	version  uint64 // bumped on every state change
	epoch    uint64
	closed   bool
	inflight chan struct{} // closed when the outstanding request settles

	// notifyMu orders observer delivery; notified is the last version delivered.
	notifyMu sync.Mutex
	notified uint64
}

// New creates a Slot in the Idle state.
func New(persona domain.Persona, in input.Reader, gen ports.Generator, opts ...Option) *Slot {
	s := &Slot{
		persona:   persona,
		input:     in,
		generator: gen,
		logger:    logging.NewNop(),
		nextID:    uuid.NewString,
		state:     domain.Idle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("persona", persona.ID)
	return s
}

// Persona returns the slot's persona configuration.
func (s *Slot) Persona() domain.Persona {
	return s.persona
}

// State returns a copy of the current state.
func (s *Slot) State() domain.SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Closed reports whether Close has been called.
func (s *Slot) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Trigger snapshots the shared input and issues one request on its own goroutine.
// It reports whether a request was issued.
//
// A blank snapshot moves the slot to Error(ValidationError) without a request.
// Triggering while Loading, or after Close, is a no-op.
func (s *Slot) Trigger(ctx context.Context) bool {
	snapshot := s.input.Read()

	s.mu.Lock()
	if s.closed || s.state.Status == domain.StatusLoading {
		closed := s.closed
		s.mu.Unlock()
		s.logger.Debug("trigger ignored", "closed", closed)
		return false
	}

	if strings.TrimSpace(snapshot) == "" {
		version := s.setLocked(domain.Failure(domain.ErrorKindValidation, domain.MessageInputRequired))
		state := s.state
		s.mu.Unlock()

		s.logger.Debug("trigger rejected: blank input")
		s.fire(ctx, s.hooks.OnReject, &domain.SlotEvent{Type: domain.EventReject, State: state})
		s.notify(state, version)
		return false
	}

	s.epoch++
	epoch := s.epoch
	version := s.setLocked(domain.Loading())
	done := make(chan struct{})
	s.inflight = done
	req := domain.NewRequest(s.nextID(), s.persona, snapshot)
	s.mu.Unlock()

	s.logger.Info("interpretation requested", "request_id", req.ID, "input_len", len(snapshot))
	s.fire(ctx, s.hooks.OnTrigger, &domain.SlotEvent{Type: domain.EventTrigger, RequestID: req.ID, State: domain.Loading()})
	s.notify(domain.Loading(), version)

	// Teardown never aborts the transport call; it only discards the result.
	reqCtx := context.WithoutCancel(ctx)
	go s.run(reqCtx, req, epoch, done)
	return true
}

func (s *Slot) run(ctx context.Context, req domain.Request, epoch uint64, done chan struct{}) {
	defer close(done)

	start := time.Now()
	payload, err := s.generator.Generate(ctx, req, s.credential)
	result := classifier.Classify(payload, err)
	elapsed := time.Since(start)

	s.mu.Lock()
	if s.closed || epoch != s.epoch {
		s.mu.Unlock()
		s.logger.Debug("late result discarded", "request_id", req.ID, "outcome", result.Outcome())
		s.fire(ctx, s.hooks.OnDiscard, &domain.SlotEvent{Type: domain.EventDiscard, RequestID: req.ID, State: result, Duration: elapsed})
		return
	}
	version := s.setLocked(result)
	s.mu.Unlock()

	if result.Status == domain.StatusError {
		s.logger.Warn("interpretation failed", "request_id", req.ID, "kind", result.Kind, "message", result.Message, "duration", elapsed)
	} else {
		s.logger.Info("interpretation settled", "request_id", req.ID, "text_len", len(result.Text), "duration", elapsed)
	}
	s.fire(ctx, s.hooks.OnSettle, &domain.SlotEvent{Type: domain.EventSettle, RequestID: req.ID, State: result, Duration: elapsed})
	s.notify(result, version)
}

// Wait blocks until no request is outstanding or ctx is done.
func (s *Slot) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.inflight
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the slot down. An outstanding request keeps running but its
// result is discarded without mutating state. Close is idempotent.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.epoch++
}

// setLocked replaces the state and returns its version. s.mu must be held.
func (s *Slot) setLocked(state domain.SlotState) uint64 {
	s.state = state
	s.version++
	return s.version
}

// notify delivers state unless a newer version was already delivered, so the
// last update an observer sees always matches State. Observers must not
// trigger this slot synchronously.
func (s *Slot) notify(state domain.SlotState, version uint64) {
	if s.observer == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.notified {
		s.logger.Debug("stale update dropped", "version", version, "outcome", state.Outcome())
		return
	}
	s.notified = version
	s.observer(domain.SlotUpdate{PersonaID: s.persona.ID, State: state})
}

func (s *Slot) fire(ctx context.Context, hook func(context.Context, *domain.SlotEvent), e *domain.SlotEvent) {
	if hook == nil {
		return
	}
	e.Timestamp = time.Now()
	e.PersonaID = s.persona.ID
	hook(ctx, e)
}
