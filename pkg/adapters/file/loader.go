// Package file loads persona rosters from YAML documents.
package file

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/dreamboard/pkg/domain"
)

//go:embed default_personas.yaml
var defaultPersonas []byte

// PersonaMetadata is the on-disk shape of one persona entry.
// It uses "mapstructure" tags so unknown keys are reported instead of ignored.
type PersonaMetadata struct {
	ID           string            `mapstructure:"id"`
	Name         string            `mapstructure:"name"`
	Instruction  string            `mapstructure:"instruction"`
	Description  string            `mapstructure:"description"`
	Image        string            `mapstructure:"image"`
	Presentation map[string]string `mapstructure:"presentation"`
}

// Loader implements ports.PersonaLoader over a YAML document.
type Loader struct {
	name string
	data []byte
	read func() ([]byte, error)
}

// New creates a Loader that reads path on every LoadPersonas call.
func New(path string) *Loader {
	return &Loader{
		name: path,
		read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// FromBytes creates a Loader over an in-memory document. name is used in errors.
func FromBytes(name string, data []byte) *Loader {
	return &Loader{name: name, data: data}
}

// Default returns the Loader for the embedded roster.
func Default() *Loader {
	return FromBytes("default_personas.yaml", defaultPersonas)
}

// LoadPersonas parses the document and returns personas in document order.
func (l *Loader) LoadPersonas() ([]domain.Persona, error) {
	data := l.data
	if l.read != nil {
		var err error
		if data, err = l.read(); err != nil {
			return nil, fmt.Errorf("failed to read personas file %s: %w", l.name, err)
		}
	}

	var doc struct {
		Personas []map[string]any `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.name, err)
	}

	personas := make([]domain.Persona, 0, len(doc.Personas))
	for i, raw := range doc.Personas {
		meta, err := decodeMetadata(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: persona %d: %w", l.name, i, err)
		}
		if meta.Instruction == "" {
			return nil, fmt.Errorf("%s: persona %q: %w: missing instruction", l.name, meta.ID, domain.ErrInvalidPersona)
		}
		personas = append(personas, meta.toDomain())
	}
	return personas, nil
}

func decodeMetadata(raw map[string]any) (PersonaMetadata, error) {
	var meta PersonaMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true, // YAML numbers/bools in presentation hints become strings
		ErrorUnused:      true,
	})
	if err != nil {
		return meta, err
	}
	if err := decoder.Decode(raw); err != nil {
		return meta, fmt.Errorf("failed to decode persona: %w", err)
	}
	return meta, nil
}

func (m PersonaMetadata) toDomain() domain.Persona {
	name := m.Name
	if name == "" {
		name = m.ID
	}
	return domain.Persona{
		ID:                  m.ID,
		Name:                name,
		InstructionTemplate: m.Instruction,
		DisplayText:         m.Description,
		ImageRef:            m.Image,
		Presentation:        domain.PresentationHints(m.Presentation),
	}
}
