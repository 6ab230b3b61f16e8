package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger on stderr so stdout stays clean for panels.
// An unparsable level falls back to info.
func CreateLogger(level string) *slog.Logger {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

// DebugHooks logs every slot lifecycle event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTrigger: func(ctx context.Context, e *domain.SlotEvent) {
			logger.Debug("Slot Trigger", "persona", e.PersonaID, "request_id", e.RequestID)
		},
		OnSettle: func(ctx context.Context, e *domain.SlotEvent) {
			logger.Debug("Slot Settle", "persona", e.PersonaID, "request_id", e.RequestID, "outcome", e.State.Outcome(), "duration", e.Duration)
		},
		OnDiscard: func(ctx context.Context, e *domain.SlotEvent) {
			logger.Debug("Slot Discard", "persona", e.PersonaID, "request_id", e.RequestID)
		},
		OnReject: func(ctx context.Context, e *domain.SlotEvent) {
			logger.Debug("Slot Reject", "persona", e.PersonaID, "kind", e.State.Kind)
		},
	}
}
