package ports

import "github.com/aretw0/dreamboard/pkg/domain"

// PersonaLoader defines how the registry retrieves persona definitions.
// This allows the configuration source (embedded YAML, file, memory) to be decoupled.
type PersonaLoader interface {
	// LoadPersonas returns the ordered roster. Order is display order.
	LoadPersonas() ([]domain.Persona, error)
}
