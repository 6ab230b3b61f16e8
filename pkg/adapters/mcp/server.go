package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/dreamboard"
	"github.com/aretw0/dreamboard/internal/logging"
	"github.com/aretw0/dreamboard/internal/sanitize"
	"github.com/aretw0/dreamboard/pkg/domain"
)

// PersonasURI is the resource exposing the persona roster.
const PersonasURI = "dreamboard://personas"

// Board defines the interface required by the MCP server.
type Board interface {
	SetInput(text string)
	Personas() []domain.Persona
	Trigger(ctx context.Context, id string) (bool, error)
	TriggerAll(ctx context.Context) []string
	States() map[string]domain.SlotState
	Wait(ctx context.Context) error
}

// Server exposes a Board as an MCP server.
type Server struct {
	board     Board
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(board Board, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		board:     board,
		logger:    logger,
		mcpServer: server.NewMCPServer("dreamboard-mcp", dreamboard.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_personas",
		mcp.WithDescription("List the interpreter personas in display order."),
	), s.handleListPersonas)

	s.mcpServer.AddTool(mcp.NewTool("set_input",
		mcp.WithDescription("Replace the shared dream text. Slot states are not changed."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The dream to interpret")),
	), s.handleSetInput)

	s.mcpServer.AddTool(mcp.NewTool("interpret",
		mcp.WithDescription("Trigger one persona (or all of them) on the shared dream and wait for the readings."),
		mcp.WithString("persona", mcp.Description("Persona ID; omit to trigger every persona")),
		mcp.WithString("text", mcp.Description("Optional dream text written to the shared input first")),
	), s.handleInterpret)

	s.mcpServer.AddTool(mcp.NewTool("get_slot",
		mcp.WithDescription("Get the current state of a persona's panel."),
		mcp.WithString("persona", mcp.Required(), mcp.Description("Persona ID")),
	), s.handleGetSlot)
}

func (s *Server) handleListPersonas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.board.Personas())
}

func (s *Server) handleSetInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if text, err = sanitize.Input(text, 0); err != nil {
		s.logger.Warn("MCP set_input: input rejected", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.board.SetInput(text)
	return mcp.NewToolResultText("input updated"), nil
}

func (s *Server) handleInterpret(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if text, ok := args["text"].(string); ok {
		clean, err := sanitize.Input(text, 0)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.board.SetInput(clean)
	}

	ids := []string{}
	if id := request.GetString("persona", ""); id != "" {
		if _, err := s.board.Trigger(ctx, id); err != nil {
			if errors.Is(err, domain.ErrPersonaNotFound) || errors.Is(err, domain.ErrSlotClosed) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}
		ids = append(ids, id)
	} else {
		s.board.TriggerAll(ctx)
		for _, p := range s.board.Personas() {
			ids = append(ids, p.ID)
		}
	}

	if err := s.board.Wait(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("wait interrupted: %v", err)), nil
	}

	states := s.board.States()
	out := make([]domain.SlotUpdate, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.SlotUpdate{PersonaID: id, State: states[id]})
	}
	s.logger.Debug("MCP interpret settled", "slots", len(out))
	return jsonResult(out)
}

func (s *Server) handleGetSlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("persona")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, ok := s.board.States()[id]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %q", domain.ErrPersonaNotFound, id)), nil
	}
	return jsonResult(domain.SlotUpdate{PersonaID: id, State: state})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(PersonasURI, "Persona Roster",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.board.Personas())
		if err != nil {
			return nil, fmt.Errorf("failed to encode personas: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      PersonasURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
