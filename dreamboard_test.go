package dreamboard_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/pkg/adapters/memory"
	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/registry"
)

func newTestBoard(t *testing.T, gen *memory.Generator, opts ...dreamboard.Option) *dreamboard.Board {
	t.Helper()
	reg, err := registry.New(
		domain.Persona{ID: "a", Name: "A", InstructionTemplate: "Read as A."},
		domain.Persona{ID: "b", Name: "B", InstructionTemplate: "Read as B."},
	)
	require.NoError(t, err)

	board, err := dreamboard.New(append([]dreamboard.Option{
		dreamboard.WithRegistry(reg),
		dreamboard.WithGenerator(gen),
	}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(board.Close)
	return board
}

func TestBoard_DefaultRoster(t *testing.T) {
	board, err := dreamboard.New(dreamboard.WithGenerator(memory.NewGenerator()))
	require.NoError(t, err)
	defer board.Close()

	var ids []string
	for _, p := range board.Personas() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"freud", "jung", "oracle", "skeptic"}, ids)
	for id, st := range board.States() {
		assert.Equal(t, domain.StatusIdle, st.Status, id)
	}
}

func TestBoard_InitialInputAndSetInput(t *testing.T) {
	board := newTestBoard(t, memory.NewGenerator(), dreamboard.WithInitialInput("seed"))
	assert.Equal(t, "seed", board.Input())

	var seen []string
	unsubscribe := board.SubscribeInput(func(text string) { seen = append(seen, text) })
	board.SetInput("flying")
	unsubscribe()
	board.SetInput("falling")

	assert.Equal(t, "falling", board.Input())
	assert.Equal(t, []string{"flying"}, seen)
	assert.Equal(t, domain.StatusIdle, board.States()["a"].Status, "editing input never touches slots")
}

func TestBoard_TriggerAll_IndependentOutcomes(t *testing.T) {
	gen := memory.NewGenerator()
	gen.Enqueue("a", memory.TextReply("A"))
	gen.Enqueue("b", memory.BlockedReply())

	var creds []string
	board := newTestBoard(t, gen, dreamboard.WithCredential("K"))
	board.SetInput("I lost my teeth")

	issued := board.TriggerAll(context.Background())
	assert.Equal(t, []string{"a", "b"}, issued)
	require.NoError(t, board.Wait(context.Background()))

	states := board.States()
	assert.Equal(t, domain.Success("A"), states["a"])
	assert.Equal(t, domain.ErrorKindSafety, states["b"].Kind)

	for _, c := range gen.Calls() {
		creds = append(creds, c.Credential)
		assert.Contains(t, c.Request.PromptText, `Dream: "I lost my teeth"`)
	}
	assert.Equal(t, []string{"K", "K"}, creds)
}

func TestBoard_Trigger_UnknownPersona(t *testing.T) {
	board := newTestBoard(t, memory.NewGenerator())
	board.SetInput("x")

	issued, err := board.Trigger(context.Background(), "nobody")
	assert.False(t, issued)
	assert.ErrorIs(t, err, domain.ErrPersonaNotFound)
}

func TestBoard_Trigger_BlankInput(t *testing.T) {
	gen := memory.NewGenerator()
	board := newTestBoard(t, gen)

	issued, err := board.Trigger(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, issued)
	assert.Equal(t, domain.Failure(domain.ErrorKindValidation, domain.MessageInputRequired), board.States()["a"])
	assert.Equal(t, domain.StatusIdle, board.States()["b"].Status)
	assert.Empty(t, gen.Calls())
}

func TestBoard_Subscribe(t *testing.T) {
	gate := make(chan struct{})
	gen := memory.NewGenerator()
	gen.Enqueue("a", memory.Reply{Payload: memory.TextReply("done").Payload, Gate: gate})

	board := newTestBoard(t, gen)
	board.SetInput("x")

	var mu sync.Mutex
	var updates []domain.SlotUpdate
	unsubscribe := board.Subscribe(func(u domain.SlotUpdate) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	})
	defer unsubscribe()

	_, err := board.Trigger(context.Background(), "a")
	require.NoError(t, err)
	close(gate)
	require.NoError(t, board.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 2)
	assert.Equal(t, domain.SlotUpdate{PersonaID: "a", State: domain.Loading()}, updates[0])
	assert.Equal(t, domain.SlotUpdate{PersonaID: "a", State: domain.Success("done")}, updates[1])
}

func TestBoard_CloseDiscardsLateResults(t *testing.T) {
	gate := make(chan struct{})
	gen := memory.NewGenerator()
	gen.Enqueue("a", memory.Reply{Payload: memory.TextReply("late").Payload, Gate: gate})

	discarded := 0
	var mu sync.Mutex
	board := newTestBoard(t, gen, dreamboard.WithLifecycleHooks(domain.LifecycleHooks{
		OnDiscard: func(ctx context.Context, e *domain.SlotEvent) {
			mu.Lock()
			discarded++
			mu.Unlock()
		},
	}))
	board.SetInput("x")

	_, err := board.Trigger(context.Background(), "a")
	require.NoError(t, err)
	board.Close()
	close(gate)
	require.NoError(t, board.Wait(context.Background()))

	assert.Equal(t, domain.StatusLoading, board.States()["a"].Status)
	mu.Lock()
	assert.Equal(t, 1, discarded)
	mu.Unlock()

	issued, err := board.Trigger(context.Background(), "a")
	assert.ErrorIs(t, err, domain.ErrSlotClosed)
	assert.False(t, issued)
}

func TestBoard_SubscriberMayUnsubscribeFromCallback(t *testing.T) {
	board := newTestBoard(t, memory.NewGenerator())

	var mu sync.Mutex
	var order []string
	var unsubscribe func()
	unsubscribe = board.Subscribe(func(u domain.SlotUpdate) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
		unsubscribe()
	})
	defer board.Subscribe(func(u domain.SlotUpdate) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
	})()

	// Blank input settles synchronously with a validation error.
	_, err := board.Trigger(context.Background(), "a")
	require.NoError(t, err)
	_, err = board.Trigger(context.Background(), "a")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second", "second"}, order)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, dreamboard.Version)
	assert.NotContains(t, dreamboard.Version, "\n")
}
