package domain

// PromptSeparator joins the instruction template and the quoted dream.
const PromptSeparator = "\n\nDream: "

// Request is the ephemeral outbound call built at trigger time.
type Request struct {
	// ID correlates logs and hooks; it is never sent to the service.
	ID         string
	PersonaID  string
	PromptText string
}

// BuildPrompt renders the prompt for a persona template and an input snapshot.
func BuildPrompt(instructionTemplate, snapshot string) string {
	return instructionTemplate + PromptSeparator + "\"" + snapshot + "\""
}

// NewRequest builds the request for persona p from the snapshot taken at trigger time.
func NewRequest(id string, p Persona, snapshot string) Request {
	return Request{
		ID:         id,
		PersonaID:  p.ID,
		PromptText: BuildPrompt(p.InstructionTemplate, snapshot),
	}
}
