// Package gemini implements ports.Generator against the generateContent REST endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/pkg/domain"
)

// DefaultEndpoint is the fixed generateContent URL used when none is configured.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// EndpointForModel returns the generateContent URL of model on the public API.
func EndpointForModel(model string) string {
	return "https://generativelanguage.googleapis.com/v1beta/models/" + model + ":generateContent"
}

// maxErrorBody bounds how much of a failed response is kept for logs.
const maxErrorBody = 4096

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Client calls the external text-generation service over HTTPS.
// It performs exactly one HTTP exchange per Generate call: no retry, no timeout.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the generateContent URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient injects the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client. The default HTTP client has no timeout: an unresponsive
// service keeps the calling slot loading.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured URL without credential.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate POSTs the prompt and decodes the reply.
// The credential is always sent as the "key" query parameter, even when empty.
func (c *Client) Generate(ctx context.Context, req domain.Request, credential string) (*domain.Payload, error) {
	target, err := c.requestURL(credential)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.PromptText}}}},
	})
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the full URL, credential included
		return nil, &domain.TransportError{Err: redact(err, credential)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("generate: non-2xx response",
			"request_id", req.ID, "status", resp.StatusCode, "body", string(snippet))
		return nil, &domain.TransportError{StatusCode: resp.StatusCode, StatusText: statusText(resp)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var payload domain.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.logger.Debug("generate: undecodable body", "request_id", req.ID, "error", err, "size", len(raw))
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return &payload, nil
}

func (c *Client) requestURL(credential string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", credential)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// statusText returns the reason phrase the server sent, or the canonical one
// when the status line carries none.
func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func redact(err error, credential string) error {
	if credential == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(credential), "REDACTED")
	msg = strings.ReplaceAll(msg, credential, "REDACTED")
	return fmt.Errorf("%s", msg)
}
