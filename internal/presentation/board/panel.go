package board

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/dreamboard/pkg/domain"
)

func renderPanel(n int, p domain.Persona, st domain.SlotState, width int) string {
	accent := lipgloss.Color(p.Hint("accent", "#a78bfa"))

	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Render(fmt.Sprintf("%d %s %s", n, p.Hint("glyph", "*"), p.Name))

	var body string
	switch st.Status {
	case domain.StatusLoading:
		body = lipgloss.NewStyle().Faint(true).Render("Interpreting...")
	case domain.StatusSuccess:
		body = st.Text
	case domain.StatusError:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Render(st.Message)
	default:
		body = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888")).Render(p.DisplayText)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width).
		Render(head + "\n" + body)
}
