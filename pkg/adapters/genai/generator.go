// Package genai implements ports.Generator with the Google Gen AI SDK.
//
// The SDK authenticates with its own header instead of the "key" query
// parameter; use the gemini package when the exact REST wire format matters.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	sdk "google.golang.org/genai"

	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/pkg/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Generator lazily builds one SDK client per credential.
type Generator struct {
	model   string
	baseURL string
	logger  *slog.Logger

	mu      sync.Mutex
	clients map[string]*sdk.Client
}

// Option configures the Generator.
type Option func(*Generator)

// WithModel sets the model name (without the "models/" prefix).
func WithModel(model string) Option {
	return func(g *Generator) {
		if model != "" {
			g.model = model
		}
	}
}

// WithBaseURL overrides the API base URL (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(g *Generator) {
		g.baseURL = baseURL
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		model:   DefaultModel,
		logger:  logging.NewNop(),
		clients: make(map[string]*sdk.Client),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends the prompt as a single user turn and maps the SDK response.
func (g *Generator) Generate(ctx context.Context, req domain.Request, credential string) (*domain.Payload, error) {
	client, err := g.client(ctx, credential)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, []*sdk.Content{
		{Role: "user", Parts: []*sdk.Part{{Text: req.PromptText}}},
	}, nil)
	if err != nil {
		var apiErr sdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			g.logger.Debug("genai: api error", "request_id", req.ID, "code", apiErr.Code, "status", apiErr.Status)
			return nil, &domain.TransportError{StatusCode: apiErr.Code, StatusText: http.StatusText(apiErr.Code), Err: err}
		}
		return nil, &domain.TransportError{Err: err}
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty SDK response", domain.ErrMalformedPayload)
	}
	return toPayload(resp), nil
}

func (g *Generator) client(ctx context.Context, credential string) (*sdk.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[credential]; ok {
		return c, nil
	}
	cfg := &sdk.ClientConfig{
		APIKey:  credential,
		Backend: sdk.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = sdk.HTTPOptions{BaseURL: g.baseURL}
	}
	c, err := sdk.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	g.clients[credential] = c
	return c, nil
}

func toPayload(resp *sdk.GenerateContentResponse) *domain.Payload {
	payload := &domain.Payload{}
	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		cand := domain.Candidate{FinishReason: string(c.FinishReason)}
		if c.Content != nil {
			cand.Content.Role = c.Content.Role
			for _, p := range c.Content.Parts {
				if p == nil {
					continue
				}
				cand.Content.Parts = append(cand.Content.Parts, domain.Part{Text: p.Text})
			}
		}
		payload.Candidates = append(payload.Candidates, cand)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		payload.PromptFeedback = &domain.PromptFeedback{BlockReason: string(resp.PromptFeedback.BlockReason)}
	}
	return payload
}
