package memory

import (
	"github.com/aretw0/dreamboard/pkg/domain"
)

// Loader implements ports.PersonaLoader from an in-memory slice.
type Loader struct {
	personas []domain.Persona
}

// NewLoader creates a Loader serving the given personas in order.
func NewLoader(personas ...domain.Persona) *Loader {
	cp := make([]domain.Persona, len(personas))
	copy(cp, personas)
	return &Loader{personas: cp}
}

// LoadPersonas returns a copy of the configured roster.
func (l *Loader) LoadPersonas() ([]domain.Persona, error) {
	out := make([]domain.Persona, len(l.personas))
	copy(out, l.personas)
	return out, nil
}
