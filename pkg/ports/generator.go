package ports

import (
	"context"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Generator is the outbound text-generation boundary.
//
// Implementations return a *domain.TransportError for network and non-2xx failures
// and wrap domain.ErrMalformedPayload when a successful reply cannot be decoded.
// A nil error implies a non-nil payload. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req domain.Request, credential string) (*domain.Payload, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req domain.Request, credential string) (*domain.Payload, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req domain.Request, credential string) (*domain.Payload, error) {
	return f(ctx, req, credential)
}
