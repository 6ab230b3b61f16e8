// Package cli wires configuration into a ready Board for the dreamboard commands.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/internal/config"
	"github.com/aretw0/dreamboard/pkg/adapters/file"
	"github.com/aretw0/dreamboard/pkg/adapters/gemini"
	"github.com/aretw0/dreamboard/pkg/adapters/genai"
	"github.com/aretw0/dreamboard/pkg/adapters/memory"
	"github.com/aretw0/dreamboard/pkg/ports"
	"github.com/aretw0/dreamboard/pkg/registry"
)

// NewGenerator selects the text-generation backend named by cfg.Backend.
func NewGenerator(cfg config.Config, logger *slog.Logger) (ports.Generator, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendREST, "":
		endpoint := cfg.Endpoint
		if endpoint == "" && cfg.Model != "" {
			endpoint = gemini.EndpointForModel(cfg.Model)
		}
		return gemini.New(gemini.WithEndpoint(endpoint), gemini.WithLogger(logger)), nil
	case config.BackendGenAI:
		return genai.New(genai.WithModel(cfg.Model), genai.WithBaseURL(cfg.Endpoint), genai.WithLogger(logger)), nil
	case config.BackendEcho:
		return memory.NewGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// NewRegistry loads the roster from cfg.Personas, or the embedded default.
func NewRegistry(cfg config.Config) (*registry.Registry, error) {
	loader := file.Default()
	if cfg.Personas != "" {
		loader = file.New(cfg.Personas)
	}
	reg, err := registry.Load(loader)
	if err != nil {
		return nil, fmt.Errorf("error loading personas: %w", err)
	}
	return reg, nil
}

// NewBoard builds a Board with standard CLI conventions. extra options are applied last.
func NewBoard(cfg config.Config, logger *slog.Logger, extra ...dreamboard.Option) (*dreamboard.Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen, err := NewGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	opts := []dreamboard.Option{
		dreamboard.WithRegistry(reg),
		dreamboard.WithGenerator(gen),
		dreamboard.WithCredential(cfg.APIKey),
		dreamboard.WithLogger(logger),
		dreamboard.WithLifecycleHooks(DebugHooks(logger)),
	}
	board, err := dreamboard.New(append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing board: %w", err)
	}
	return board, nil
}
