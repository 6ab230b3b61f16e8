// Package registry holds the ordered, immutable persona roster.
package registry

import (
	"fmt"
	"strings"

	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/ports"
)

// Registry manages the available personas. It is fixed after construction.
type Registry struct {
	personas []domain.Persona
	index    map[string]int
}

// New creates a registry from an ordered list of personas.
// The list must be non-empty and every ID must be unique and non-blank.
func New(personas ...domain.Persona) (*Registry, error) {
	if len(personas) == 0 {
		return nil, domain.ErrEmptyRegistry
	}

	r := &Registry{
		personas: make([]domain.Persona, 0, len(personas)),
		index:    make(map[string]int, len(personas)),
	}
	for i, p := range personas {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: persona at position %d has no id", domain.ErrInvalidPersona, i)
		}
		if _, exists := r.index[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicatePersona, p.ID)
		}
		r.index[p.ID] = len(r.personas)
		r.personas = append(r.personas, clonePersona(p))
	}
	return r, nil
}

// Load builds a registry from a PersonaLoader.
func Load(loader ports.PersonaLoader) (*Registry, error) {
	personas, err := loader.LoadPersonas()
	if err != nil {
		return nil, fmt.Errorf("failed to load personas: %w", err)
	}
	return New(personas...)
}

// Get looks up a persona by ID.
func (r *Registry) Get(id string) (domain.Persona, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.Persona{}, false
	}
	return clonePersona(r.personas[i]), true
}

// List returns the personas in registry order.
func (r *Registry) List() []domain.Persona {
	out := make([]domain.Persona, len(r.personas))
	for i, p := range r.personas {
		out[i] = clonePersona(p)
	}
	return out
}

// IDs returns the persona IDs in registry order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.personas))
	for i, p := range r.personas {
		ids[i] = p.ID
	}
	return ids
}

// Len returns the number of personas.
func (r *Registry) Len() int {
	return len(r.personas)
}

// clonePersona copies the hints map so callers cannot mutate the registry.
func clonePersona(p domain.Persona) domain.Persona {
	if p.Presentation != nil {
		hints := make(domain.PresentationHints, len(p.Presentation))
		for k, v := range p.Presentation {
			hints[k] = v
		}
		p.Presentation = hints
	}
	return p
}
