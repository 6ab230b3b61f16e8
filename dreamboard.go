package dreamboard

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/pkg/adapters/file"
	"github.com/aretw0/dreamboard/pkg/adapters/gemini"
	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/input"
	"github.com/aretw0/dreamboard/pkg/ports"
	"github.com/aretw0/dreamboard/pkg/registry"
	"github.com/aretw0/dreamboard/pkg/slot"
)

// Board is the high-level entry point: one shared input, one slot per persona.
type Board struct {
	input      *input.Store
	registry   *registry.Registry
	generator  ports.Generator
	credential string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	initial    string

	slots map[string]*slot.Slot

	mu     sync.RWMutex
	subs   map[int]func(domain.SlotUpdate)
	nextID int
}

// Option defines a functional option for configuring the Board.
type Option func(*Board)

// WithRegistry injects the persona roster. Defaults to the embedded roster.
func WithRegistry(r *registry.Registry) Option {
	return func(b *Board) {
		b.registry = r
	}
}

// WithGenerator injects the text-generation backend. Defaults to the Gemini REST client.
func WithGenerator(g ports.Generator) Option {
	return func(b *Board) {
		b.generator = g
	}
}

// WithCredential sets the opaque credential handed to every request.
func WithCredential(credential string) Option {
	return func(b *Board) {
		b.credential = credential
	}
}

// WithLogger sets a custom structured logger for the board and its slots.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls are chained.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Board) {
		b.hooks = b.hooks.Merge(hooks)
	}
}

// WithInitialInput seeds the shared input.
func WithInitialInput(text string) Option {
	return func(b *Board) {
		b.initial = text
	}
}

// New creates a Board with every slot Idle.
func New(opts ...Option) (*Board, error) {
	b := &Board{
		subs: make(map[int]func(domain.SlotUpdate)),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.registry == nil {
		reg, err := registry.Load(file.Default())
		if err != nil {
			return nil, fmt.Errorf("failed to load default personas: %w", err)
		}
		b.registry = reg
	}
	if b.generator == nil {
		b.generator = gemini.New(gemini.WithLogger(b.logger))
	}

	b.input = input.New(b.initial)
	b.slots = make(map[string]*slot.Slot, b.registry.Len())
	for _, p := range b.registry.List() {
		b.slots[p.ID] = slot.New(p, b.input, b.generator,
			slot.WithCredential(b.credential),
			slot.WithLogger(b.logger),
			slot.WithLifecycleHooks(b.hooks),
			slot.WithObserver(b.broadcast),
		)
	}
	return b, nil
}

// Input returns the current shared input value.
func (b *Board) Input() string {
	return b.input.Read()
}

// SetInput replaces the shared input. Slot states are not touched.
func (b *Board) SetInput(text string) {
	b.input.Write(text)
}

// SubscribeInput registers a listener for input changes.
func (b *Board) SubscribeInput(fn input.Listener) (unsubscribe func()) {
	return b.input.Subscribe(fn)
}

// Personas returns the roster in display order.
func (b *Board) Personas() []domain.Persona {
	return b.registry.List()
}

// Slot returns the slot bound to a persona id.
func (b *Board) Slot(id string) (*slot.Slot, bool) {
	s, ok := b.slots[id]
	return s, ok
}

// Trigger fires one slot. It reports whether a request was issued.
// A slot torn down by Close yields domain.ErrSlotClosed.
func (b *Board) Trigger(ctx context.Context, id string) (bool, error) {
	s, ok := b.slots[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", domain.ErrPersonaNotFound, id)
	}
	if s.Trigger(ctx) {
		return true, nil
	}
	if s.Closed() {
		return false, fmt.Errorf("%w: %q", domain.ErrSlotClosed, id)
	}
	return false, nil
}

// TriggerAll fires every slot in registry order and returns the ids that issued a request.
func (b *Board) TriggerAll(ctx context.Context) []string {
	var issued []string
	for _, id := range b.registry.IDs() {
		if b.slots[id].Trigger(ctx) {
			issued = append(issued, id)
		}
	}
	return issued
}

// States returns a snapshot of every slot state keyed by persona id.
func (b *Board) States() map[string]domain.SlotState {
	out := make(map[string]domain.SlotState, len(b.slots))
	for id, s := range b.slots {
		out[id] = s.State()
	}
	return out
}

// Subscribe registers fn for every slot state change.
// Callbacks may run on request goroutines and must not block.
func (b *Board) Subscribe(fn func(domain.SlotUpdate)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Wait blocks until no slot has an outstanding request.
func (b *Board) Wait(ctx context.Context) error {
	for _, s := range b.slots {
		if err := s.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close tears every slot down. Results still in flight are discarded.
func (b *Board) Close() {
	for _, s := range b.slots {
		s.Close()
	}
	b.logger.Debug("board closed", "slots", len(b.slots))
}

// broadcast delivers u in subscription order outside the lock, so callbacks
// may unsubscribe. A callback removed concurrently can still get one last update.
func (b *Board) broadcast(u domain.SlotUpdate) {
	b.mu.RLock()
	fns := make([]func(domain.SlotUpdate), 0, len(b.subs))
	for _, id := range slices.Sorted(maps.Keys(b.subs)) {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(u)
	}
}
