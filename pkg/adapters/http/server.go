package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/internal/presentation/assets"
	"github.com/aretw0/dreamboard/internal/sanitize"
	"github.com/aretw0/dreamboard/pkg/domain"
	"github.com/aretw0/dreamboard/pkg/input"
)

// maxInputBytes bounds PUT /input bodies.
const maxInputBytes = 64 << 10

// Board is the subset of the dreamboard facade served over HTTP.
type Board interface {
	Input() string
	SetInput(text string)
	SubscribeInput(fn input.Listener) (unsubscribe func())
	Personas() []domain.Persona
	Trigger(ctx context.Context, id string) (bool, error)
	States() map[string]domain.SlotState
	Subscribe(fn func(domain.SlotUpdate)) (unsubscribe func())
}

// InputBody is the JSON shape of GET/PUT /input.
type InputBody struct {
	Text string `json:"text"`
}

// Server exposes a Board as a REST + SSE API.
type Server struct {
	Board   Board
	Streams *StreamManager

	logger   *slog.Logger
	metrics  http.Handler
	maxInput int
	assetDir string
	handler  http.Handler
	stop     []func()
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxInputSize bounds PUT /input text in bytes (default sanitize.DefaultMaxSize).
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

// WithAssetDir sets the directory relative image references are resolved against.
func WithAssetDir(dir string) Option {
	return func(s *Server) {
		s.assetDir = dir
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer wires the routes and starts forwarding board changes to SSE clients.
// Call Close to detach from the board.
func NewServer(board Board, opts ...Option) *Server {
	s := &Server{
		Board:  board,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	s.stop = append(s.stop,
		board.Subscribe(s.publishSlot),
		board.SubscribeInput(s.publishInput),
	)

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/personas", s.ListPersonas)
	r.Get("/input", s.GetInput)
	r.Put("/input", s.SetInput)
	r.Get("/slots", s.ListSlots)
	r.Get("/slots/{id}", s.GetSlot)
	r.Post("/slots/{id}/trigger", s.TriggerSlot)
	r.Get("/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	s.handler = enableCORS(r)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close detaches the server from the board.
func (s *Server) Close() {
	for _, fn := range s.stop {
		fn()
	}
	s.stop = nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Dreamboard API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "dreamboard-http",
		"version":     dreamboard.Version,
		"api_version": apiVersion,
	})
}

// ListPersonas handles the GET /personas request.
// Image references that cannot be resolved are replaced by the placeholder.
func (s *Server) ListPersonas(w http.ResponseWriter, r *http.Request) {
	personas := s.Board.Personas()
	for i := range personas {
		personas[i].ImageRef = assets.Resolve(personas[i].ImageRef, s.assetDir)
	}
	s.writeJSON(w, http.StatusOK, personas)
}

// GetInput handles the GET /input request.
func (s *Server) GetInput(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, InputBody{Text: s.Board.Input()})
}

// SetInput handles the PUT /input request.
func (s *Server) SetInput(w http.ResponseWriter, r *http.Request) {
	var body InputBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBytes)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("SetInput: invalid request body", "error", err)
		return
	}
	text, err := sanitize.Input(body.Text, s.maxInput)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.logger.Warn("SetInput: input rejected", "error", err, "size", len(body.Text))
		return
	}
	s.Board.SetInput(text)
	s.writeJSON(w, http.StatusOK, InputBody{Text: s.Board.Input()})
}

// ListSlots handles the GET /slots request.
func (s *Server) ListSlots(w http.ResponseWriter, r *http.Request) {
	states := s.Board.States()
	personas := s.Board.Personas()
	out := make([]domain.SlotUpdate, 0, len(personas))
	for _, p := range personas {
		out = append(out, domain.SlotUpdate{PersonaID: p.ID, State: states[p.ID]})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetSlot handles the GET /slots/{id} request.
func (s *Server) GetSlot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, ok := s.Board.States()[id]
	if !ok {
		http.Error(w, fmt.Sprintf("persona %q not found", id), http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, domain.SlotUpdate{PersonaID: id, State: state})
}

// TriggerSlot handles the POST /slots/{id}/trigger request.
func (s *Server) TriggerSlot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	issued, err := s.Board.Trigger(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPersonaNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case errors.Is(err, domain.ErrSlotClosed):
			s.writeJSON(w, http.StatusConflict, domain.SlotUpdate{PersonaID: id, State: s.Board.States()[id]})
			return
		}
		http.Error(w, fmt.Sprintf("Trigger error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Trigger failed", "persona", id, "error", err)
		return
	}

	update := domain.SlotUpdate{PersonaID: id, State: s.Board.States()[id]}
	switch {
	case issued:
		s.writeJSON(w, http.StatusAccepted, update)
	case update.State.Kind == domain.ErrorKindValidation:
		s.writeJSON(w, http.StatusUnprocessableEntity, update)
	default:
		s.writeJSON(w, http.StatusConflict, update)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	s.logger.Info("SSE client connected")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected")
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, e.Data)
			flusher.Flush()
		}
	}
}

func (s *Server) publishSlot(u domain.SlotUpdate) {
	s.publish("slot", u)
}

func (s *Server) publishInput(text string) {
	s.publish("input", InputBody{Text: text})
}

func (s *Server) publish(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("SSE: failed to encode event", "event", name, "error", err)
		return
	}
	s.Streams.Broadcast(Event{Name: name, Data: string(data)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
