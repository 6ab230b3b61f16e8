package domain

// SlotStatus is the tag of a SlotState.
type SlotStatus string

const (
	StatusIdle    SlotStatus = "idle"    // Constructed, never triggered
	StatusLoading SlotStatus = "loading" // One request outstanding
	StatusSuccess SlotStatus = "success" // Terminal: interpreted text available
	StatusError   SlotStatus = "error"   // Terminal: Kind and Message describe the failure
)

// ErrorKind classifies a terminal error state.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation_error"
	ErrorKindTransport  ErrorKind = "transport_error"
	ErrorKindSafety     ErrorKind = "safety_blocked"
	ErrorKindMalformed  ErrorKind = "malformed_response"
)

// Fixed user-facing messages.
const (
	MessageInputRequired = "input required"
	MessageSafetyBlocked = "The interpretation was blocked by the service's safety filters. Please rephrase your dream and try again."
	MessageMalformed     = "Received an invalid or empty response from the interpretation service."
)

// SlotState is the tagged variant owned by one slot.
// Text is set only for StatusSuccess; Kind and Message only for StatusError.
type SlotState struct {
	Status  SlotStatus `json:"status"`
	Text    string     `json:"text,omitempty"`
	Kind    ErrorKind  `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Idle returns the initial state.
func Idle() SlotState { return SlotState{Status: StatusIdle} }

// Loading returns the in-flight state.
func Loading() SlotState { return SlotState{Status: StatusLoading} }

// Success returns a terminal state carrying the interpreted text.
func Success(text string) SlotState { return SlotState{Status: StatusSuccess, Text: text} }

// Failure returns a terminal error state.
func Failure(kind ErrorKind, message string) SlotState {
	return SlotState{Status: StatusError, Kind: kind, Message: message}
}

// IsTerminal reports whether the state is Success or Error.
func (s SlotState) IsTerminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusError
}

// Outcome returns a short label suitable for logs and metric labels.
func (s SlotState) Outcome() string {
	if s.Status == StatusError {
		return string(s.Kind)
	}
	return string(s.Status)
}

// SlotUpdate is published whenever a slot changes state.
type SlotUpdate struct {
	PersonaID string    `json:"persona_id"`
	State     SlotState `json:"state"`
}
