package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Presentation hint keys understood by the panels.
const (
	HintAccent = "accent"
	HintGlyph  = "glyph"
)

const (
	defaultAccent = "#a78bfa"
	defaultGlyph  = "*"
	errorColor    = "#ef4444"
)

// PanelRenderer draws one persona panel for non-interactive output.
type PanelRenderer struct {
	Profile  termenv.Profile
	Markdown func(string) (string, error)
}

// NewPanelRenderer detects the terminal color profile. markdown may be nil.
func NewPanelRenderer(markdown func(string) (string, error)) *PanelRenderer {
	if markdown == nil {
		markdown = PlainRenderer
	}
	return &PanelRenderer{Profile: termenv.ColorProfile(), Markdown: markdown}
}

// Render returns the panel text for p in state st.
func (r *PanelRenderer) Render(p domain.Persona, st domain.SlotState) string {
	accent := p.Hint(HintAccent, defaultAccent)
	glyph := p.Hint(HintGlyph, defaultGlyph)

	var b strings.Builder
	title := r.Profile.String(fmt.Sprintf("%s %s", glyph, p.Name)).Foreground(r.Profile.Color(accent)).Bold()
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, r.Profile.String(strings.Repeat("─", len([]rune(p.Name))+2)).Foreground(r.Profile.Color(accent)))

	switch st.Status {
	case domain.StatusIdle:
		if p.DisplayText != "" {
			fmt.Fprintln(&b, r.Profile.String(p.DisplayText).Italic())
		}
	case domain.StatusLoading:
		fmt.Fprintln(&b, r.Profile.String("Interpreting...").Faint())
	case domain.StatusSuccess:
		out, err := r.Markdown(HardBreaks(st.Text))
		if err != nil {
			out = st.Text
		}
		fmt.Fprintln(&b, strings.TrimRight(out, "\n"))
	case domain.StatusError:
		fmt.Fprintln(&b, r.Profile.String("! "+st.Message).Foreground(r.Profile.Color(errorColor)))
	}
	return b.String()
}
