package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyRegistry is returned when a persona registry is built without personas.
var ErrEmptyRegistry = errors.New("persona registry is empty")

// ErrDuplicatePersona is returned when two personas share an ID.
var ErrDuplicatePersona = errors.New("duplicate persona id")

// ErrInvalidPersona is returned when a persona definition is missing required fields.
var ErrInvalidPersona = errors.New("invalid persona")

// ErrPersonaNotFound is returned when a persona ID is not part of the registry.
var ErrPersonaNotFound = errors.New("persona not found")

// ErrSlotClosed is returned when triggering a slot that has been torn down.
var ErrSlotClosed = errors.New("slot closed")

// ErrMalformedPayload marks a reply that arrived successfully but could not be decoded.
var ErrMalformedPayload = errors.New("malformed payload")

// TransportError is a failure of the outbound call itself (network error or non-2xx status).
type TransportError struct {
	// StatusCode is zero when no HTTP status is available.
	StatusCode int
	StatusText string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.StatusText)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "API request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
