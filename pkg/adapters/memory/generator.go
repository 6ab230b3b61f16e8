package memory

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Reply is one scripted answer of the in-memory Generator.
type Reply struct {
	Payload *domain.Payload
	Err     error

	// Gate, when set, holds the call until it is closed or the context is done.
	Gate <-chan struct{}
}

// Call records one Generate invocation.
type Call struct {
	Request    domain.Request
	Credential string
}

// Generator implements ports.Generator with scripted, per-persona replies.
// Safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	queued   map[string][]Reply
	fallback func(domain.Request) Reply
	calls    []Call
}

// NewGenerator creates a Generator whose unscripted calls are answered by Echo.
func NewGenerator() *Generator {
	return &Generator{
		queued:   make(map[string][]Reply),
		fallback: Echo,
	}
}

// WithFallback replaces the reply used when no scripted reply is queued.
func (g *Generator) WithFallback(fn func(domain.Request) Reply) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fallback = fn
	return g
}

// Enqueue schedules replies for the next calls made on behalf of personaID.
func (g *Generator) Enqueue(personaID string, replies ...Reply) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queued[personaID] = append(g.queued[personaID], replies...)
}

// Generate records the call and returns the next scripted reply.
func (g *Generator) Generate(ctx context.Context, req domain.Request, credential string) (*domain.Payload, error) {
	g.mu.Lock()
	g.calls = append(g.calls, Call{Request: req, Credential: credential})
	var reply Reply
	if q := g.queued[req.PersonaID]; len(q) > 0 {
		reply = q[0]
		g.queued[req.PersonaID] = q[1:]
	} else {
		reply = g.fallback(req)
	}
	g.mu.Unlock()

	if reply.Gate != nil {
		select {
		case <-reply.Gate:
		case <-ctx.Done():
			return nil, &domain.TransportError{Err: ctx.Err()}
		}
	}
	if reply.Err == nil && reply.Payload == nil {
		return &domain.Payload{}, nil
	}
	return reply.Payload, reply.Err
}

// Calls returns the recorded invocations in call order.
func (g *Generator) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallCount returns how many calls were made on behalf of personaID.
func (g *Generator) CallCount(personaID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.Request.PersonaID == personaID {
			n++
		}
	}
	return n
}

// TextReply answers with a single candidate carrying text.
func TextReply(text string) Reply {
	return Reply{Payload: &domain.Payload{Candidates: []domain.Candidate{{
		Content:      domain.Content{Role: "model", Parts: []domain.Part{{Text: text}}},
		FinishReason: "STOP",
	}}}}
}

// BlockedReply answers with a safety-blocked candidate and no text.
func BlockedReply() Reply {
	return Reply{Payload: &domain.Payload{Candidates: []domain.Candidate{{
		FinishReason: domain.FinishReasonSafety,
	}}}}
}

// StatusReply fails with an HTTP status.
func StatusReply(code int) Reply {
	return Reply{Err: &domain.TransportError{StatusCode: code, StatusText: http.StatusText(code)}}
}

// Echo answers every request with a canned reading that quotes the prompt length.
// It backs the offline demo backend.
func Echo(req domain.Request) Reply {
	return TextReply(fmt.Sprintf("**%s** received a dream (%d prompt characters).\nNo external service was contacted.",
		req.PersonaID, len(req.PromptText)))
}
