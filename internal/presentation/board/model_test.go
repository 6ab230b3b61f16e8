package board

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/pkg/adapters/memory"
	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/registry"
)

func newTestModel(t *testing.T, gen *memory.Generator) (Model, *dreamboard.Board) {
	t.Helper()
	reg, err := registry.New(
		domain.Persona{ID: "freud", Name: "Freud", InstructionTemplate: "Read as Freud.", DisplayText: "Psychoanalysis"},
		domain.Persona{ID: "jung", Name: "Jung", InstructionTemplate: "Read as Jung."},
	)
	require.NoError(t, err)
	b, err := dreamboard.New(dreamboard.WithRegistry(reg), dreamboard.WithGenerator(gen))
	require.NoError(t, err)
	t.Cleanup(b.Close)
	return New(context.Background(), b, nil), b
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_TypingWritesInput(t *testing.T) {
	m, b := newTestModel(t, memory.NewGenerator())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})

	assert.Equal(t, "ok", b.Input())
	for _, st := range b.States() {
		assert.Equal(t, domain.StatusIdle, st.Status)
	}
}

func TestModel_AltDigitTriggersOneSlot(t *testing.T) {
	gen := memory.NewGenerator()
	m, b := newTestModel(t, gen)
	b.SetInput("a red door")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	require.NoError(t, b.Wait(context.Background()))

	assert.Equal(t, 0, gen.CallCount("freud"))
	assert.Equal(t, 1, gen.CallCount("jung"))
	assert.Equal(t, "a red door", b.Input(), "shortcut must not edit the text")

	// Out of range is ignored.
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9"), Alt: true})
	assert.Len(t, gen.Calls(), 1)
}

func TestModel_BlankTriggerShowsValidation(t *testing.T) {
	gen := memory.NewGenerator()
	m, _ := newTestModel(t, gen)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})

	assert.Equal(t, domain.ErrorKindValidation, m.states["freud"].Kind)
	assert.Contains(t, m.View(), domain.MessageInputRequired)
	assert.Empty(t, gen.Calls())
}

func TestModel_CtrlRTriggersAll(t *testing.T) {
	gen := memory.NewGenerator()
	m, b := newTestModel(t, gen)
	b.SetInput("falling")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.NoError(t, b.Wait(context.Background()))

	assert.Equal(t, 1, gen.CallCount("freud"))
	assert.Equal(t, 1, gen.CallCount("jung"))
	assert.Contains(t, m.status, "2 interpretation(s)")
}

func TestModel_SlotMessageUpdatesView(t *testing.T) {
	m, _ := newTestModel(t, memory.NewGenerator())

	next, _ := m.Update(slotMsg{PersonaID: "jung", State: domain.Success("The shadow speaks.")})
	m = next.(Model)

	assert.Equal(t, domain.Success("The shadow speaks."), m.states["jung"])
	assert.Contains(t, m.View(), "The shadow speaks.")
	assert.Contains(t, m.View(), "Psychoanalysis")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, memory.NewGenerator())

	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := press(m, k)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestUpdates(t *testing.T) {
	gen := memory.NewGenerator()
	_, b := newTestModel(t, gen)
	ch, stop := Updates(b)
	defer stop()

	b.SetInput("x")
	_, err := b.Trigger(context.Background(), "freud")
	require.NoError(t, err)

	assert.Equal(t, domain.SlotUpdate{PersonaID: "freud", State: domain.Loading()}, <-ch)
	assert.Equal(t, domain.StatusSuccess, (<-ch).State.Status)

	cmd := waitForUpdate(nil)
	assert.Nil(t, cmd)
}

func TestSlotKey(t *testing.T) {
	n, ok := slotKey("alt+3")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	for _, k := range []string{"3", "alt+0", "alt+x", "alt+12", "ctrl+3"} {
		_, ok := slotKey(k)
		assert.False(t, ok, k)
	}
}
