package domain

// PresentationHints is an opaque bundle of display preferences (colors, glyphs, fonts).
// The core never interprets it.
type PresentationHints map[string]string

// Persona is one fixed interpretation configuration loaded at startup.
type Persona struct {
	// ID is unique across the registry.
	ID string `json:"id"`

	// Name is the human readable title of the panel.
	Name string `json:"name"`

	// InstructionTemplate is prepended to every prompt sent on behalf of this persona.
	InstructionTemplate string `json:"instruction_template"`

	// DisplayText describes the persona to the user.
	DisplayText string `json:"display_text"`

	// ImageRef points at the persona portrait. Resolution and fallback are presentation concerns.
	ImageRef string `json:"image_ref"`

	Presentation PresentationHints `json:"presentation,omitempty"`
}

// Hint returns a presentation hint or the fallback when it is unset.
func (p Persona) Hint(key, fallback string) string {
	if v, ok := p.Presentation[key]; ok && v != "" {
		return v
	}
	return fallback
}
