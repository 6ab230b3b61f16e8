package domain

// Payload mirrors the generateContent response body.
// Every field is optional on the wire; consumers must tolerate zero values.
type Payload struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Content holds the parts of a candidate.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is one piece of generated content.
type Part struct {
	Text string `json:"text,omitempty"`
}

// PromptFeedback is reported when the prompt itself was rejected.
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// Finish reasons that indicate a content policy refusal.
const (
	FinishReasonSafety            = "SAFETY"
	FinishReasonBlocklist         = "BLOCKLIST"
	FinishReasonProhibitedContent = "PROHIBITED_CONTENT"
	FinishReasonSPII              = "SPII"
	FinishReasonImageSafety       = "IMAGE_SAFETY"
)

// IsSafetyFinishReason reports whether reason denotes a safety block.
func IsSafetyFinishReason(reason string) bool {
	switch reason {
	case FinishReasonSafety, FinishReasonBlocklist, FinishReasonProhibitedContent,
		FinishReasonSPII, FinishReasonImageSafety:
		return true
	}
	return false
}
