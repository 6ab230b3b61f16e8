package tui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/dreamboard/pkg/domain"
)

var freud = domain.Persona{
	ID:           "freud",
	Name:         "Freud",
	DisplayText:  "The father of psychoanalysis.",
	Presentation: domain.PresentationHints{HintGlyph: "§"},
}

func plainPanels() *PanelRenderer {
	return &PanelRenderer{Profile: termenv.Ascii, Markdown: PlainRenderer}
}

func TestPanelRenderer_States(t *testing.T) {
	r := plainPanels()

	assert.Equal(t, "§ Freud\n───────\nThe father of psychoanalysis.\n", r.Render(freud, domain.Idle()))
	assert.Contains(t, r.Render(freud, domain.Loading()), "Interpreting...")
	assert.Contains(t, r.Render(freud, domain.Failure(domain.ErrorKindValidation, domain.MessageInputRequired)), "! input required")
}

func TestPanelRenderer_SuccessKeepsLineBreaks(t *testing.T) {
	r := plainPanels()

	out := r.Render(freud, domain.Success("line one\nline two"))
	assert.Contains(t, out, "line one  \nline two\n")
}

func TestPanelRenderer_MarkdownFailureFallsBack(t *testing.T) {
	r := plainPanels()
	r.Markdown = func(string) (string, error) { return "", errors.New("boom") }

	out := r.Render(freud, domain.Success("raw\ntext"))
	assert.Contains(t, out, "raw\ntext")
}

func TestPanelRenderer_DefaultGlyph(t *testing.T) {
	r := plainPanels()
	out := r.Render(domain.Persona{ID: "x", Name: "X"}, domain.Idle())
	assert.Equal(t, "* X\n───\n", out)
}

func TestHardBreaks(t *testing.T) {
	assert.Equal(t, "a  \nb", HardBreaks("a\r\nb"))
	assert.Equal(t, "single", HardBreaks("single"))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_.__/")
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer(40)
	out, err := render("**bold**")
	assert.NoError(t, err)
	assert.Contains(t, out, "bold")
}
