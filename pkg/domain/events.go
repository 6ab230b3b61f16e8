package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTrigger EventType = "slot_trigger"
	EventSettle  EventType = "slot_settle"
	EventDiscard EventType = "slot_discard"
	EventReject  EventType = "slot_reject"
)

// SlotEvent describes one step of a slot request lifecycle.
type SlotEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	PersonaID string        `json:"persona_id"`
	RequestID string        `json:"request_id,omitempty"`
	State     SlotState     `json:"state"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// LifecycleHooks defines callbacks for slot observability.
// Hooks run on the goroutine that produced the event and must not block.
type LifecycleHooks struct {
	OnTrigger func(context.Context, *SlotEvent)
	OnSettle  func(context.Context, *SlotEvent)
	OnDiscard func(context.Context, *SlotEvent)
	OnReject  func(context.Context, *SlotEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTrigger: chain(h.OnTrigger, other.OnTrigger),
		OnSettle:  chain(h.OnSettle, other.OnSettle),
		OnDiscard: chain(h.OnDiscard, other.OnDiscard),
		OnReject:  chain(h.OnReject, other.OnReject),
	}
}

func chain(a, b func(context.Context, *SlotEvent)) func(context.Context, *SlotEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *SlotEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
