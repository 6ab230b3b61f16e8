package slot

import (
	"log/slog"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Option configures a Slot.
type Option func(*Slot)

// WithCredential sets the opaque credential passed unchanged to the Generator.
func WithCredential(credential string) Option {
	return func(s *Slot) {
		s.credential = credential
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Slot) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Slot) {
		s.hooks = hooks
	}
}

// WithObserver registers a callback invoked after every state change.
// It runs outside the slot lock and may call State.
func WithObserver(fn func(domain.SlotUpdate)) Option {
	return func(s *Slot) {
		s.observer = fn
	}
}

// WithRequestIDs overrides the request ID generator (default: random UUIDs).
func WithRequestIDs(next func() string) Option {
	return func(s *Slot) {
		if next != nil {
			s.nextID = next
		}
	}
}
