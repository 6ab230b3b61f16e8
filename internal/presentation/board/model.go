// Package board is the interactive terminal Dreamboard.
//
// It follows The Elm Architecture (bubbletea): the textarea is bound to the
// shared input, every edit is one SetInput, and slot updates arrive as
// messages read from a channel.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Board is what the model drives.
type Board interface {
	Input() string
	SetInput(text string)
	Personas() []domain.Persona
	Trigger(ctx context.Context, id string) (bool, error)
	TriggerAll(ctx context.Context) []string
	States() map[string]domain.SlotState
}

// slotMsg carries one slot state change into Update.
type slotMsg domain.SlotUpdate

// Model is the bubbletea model of the board.
type Model struct {
	ctx      context.Context
	board    Board
	personas []domain.Persona
	states   map[string]domain.SlotState
	updates  <-chan domain.SlotUpdate
	input    textarea.Model
	width    int
	status   string
}

// New creates the model. updates may be nil when no live updates are wired.
func New(ctx context.Context, b Board, updates <-chan domain.SlotUpdate) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe your dream..."
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.SetValue(b.Input())
	ta.Focus()

	return Model{
		ctx:      ctx,
		board:    b,
		personas: b.Personas(),
		states:   b.States(),
		updates:  updates,
		input:    ta,
		width:    80,
		status:   helpLine(len(b.Personas())),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForUpdate(m.updates))
}

func waitForUpdate(ch <-chan domain.SlotUpdate) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return slotMsg(u)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(20, msg.Width-4))
		return m, nil

	case slotMsg:
		m.states[msg.PersonaID] = msg.State
		return m, waitForUpdate(m.updates)

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			issued := m.board.TriggerAll(m.ctx)
			m.refresh()
			m.status = fmt.Sprintf("%d interpretation(s) requested", len(issued))
			return m, nil
		}
		if n, ok := slotKey(key); ok {
			if n > len(m.personas) {
				return m, nil
			}
			p := m.personas[n-1]
			if _, err := m.board.Trigger(m.ctx, p.ID); err != nil {
				m.status = err.Error()
			}
			m.refresh()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.board.SetInput(after)
	}
	return m, cmd
}

// refresh pulls state synchronously so a rejected trigger shows at once.
func (m *Model) refresh() {
	for id, st := range m.board.States() {
		m.states[id] = st
	}
}

// slotKey maps "alt+<n>" to n in 1..9.
func slotKey(key string) (int, bool) {
	digit, ok := strings.CutPrefix(key, "alt+")
	if !ok || len(digit) != 1 || digit[0] < '1' || digit[0] > '9' {
		return 0, false
	}
	return int(digit[0] - '0'), true
}

func helpLine(n int) string {
	if n > 9 {
		n = 9
	}
	return fmt.Sprintf("alt+1..%d interpret · ctrl+r all · esc quit", n)
}

// View implements tea.Model.
func (m Model) View() string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")).
		MarginBottom(1).
		Render("☾ DREAMBOARD")

	cols := 2
	if m.width >= 120 {
		cols = len(m.personas)
	}
	if cols < 1 {
		cols = 1
	}
	panelWidth := max(20, m.width/cols-2)

	var rows []string
	var row []string
	for i, p := range m.personas {
		row = append(row, renderPanel(i+1, p, m.states[p.ID], panelWidth))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(m.status)

	sections := append([]string{header, m.input.View(), ""}, rows...)
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
