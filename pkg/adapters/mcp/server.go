// Package mcp exposes presenter sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/internal/presentation/html"
	"github.com/aretw0/lectern/internal/presentation/markdown"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/runner"
	"github.com/aretw0/lectern/pkg/session"
)

// SessionsURI is the resource listing every open session.
const SessionsURI = "lectern://sessions"

// SessionResponse is the structured result of the session tools.
type SessionResponse struct {
	SessionID string          `json:"session_id" jsonschema_description:"The session the snapshot belongs to"`
	Snapshot  domain.Snapshot `json:"snapshot" jsonschema_description:"Position of the presenter after the call"`
}

// Server exposes a session manager as an MCP Server.
type Server struct {
	sessions  *session.Manager
	parser    *compiler.Parser
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance over mgr.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  mgr,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("lectern-mcp", strings.TrimSpace(lectern.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = compiler.NewParser(s.logger)
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is canceled.
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

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
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
	// TOOL: load_deck
	loadTool := mcp.NewTool("load_deck",
		mcp.WithDescription("Load a deck into a session. Without session_id a new session is created; an existing id is replaced."),
		mcp.WithString("deck", mcp.Required(), mcp.Description("The deck document")),
		mcp.WithString("format", mcp.Description("Deck serialization: json (default) or yaml")),
		mcp.WithString("session_id", mcp.Description("Session to load into (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(loadTool, mcp.NewStructuredToolHandler(s.handleLoadDeck))

	// TOOL: dispatch
	dispatchTool := mcp.NewTool("dispatch",
		mcp.WithDescription("Send a presenter command such as next, previous, goto 2, next_slide or jump <sub_topic>."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("command", mcp.Required(), mcp.Description("Command text")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: snapshot
	snapshotTool := mcp.NewTool("snapshot",
		mcp.WithDescription("Get the current position of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(snapshotTool, mcp.NewStructuredToolHandler(s.handleSnapshot))

	// TOOL: render_slide
	s.mcpServer.AddTool(mcp.NewTool("render_slide",
		mcp.WithDescription("Render the slide on screen. Markdown shows only revealed content; html and json include hidden elements."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Target session")),
		mcp.WithString("format", mcp.Description("md (default), html or json")),
	), s.handleRenderSlide)
}

func (s *Server) handleLoadDeck(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	raw, _ := args["deck"].(string)
	format, _ := args["format"].(string)
	id, _ := args["session_id"].(string)

	if strings.TrimSpace(raw) == "" {
		return SessionResponse{}, errors.New("deck is required")
	}
	d, err := s.parser.Parse([]byte(raw), compiler.Format(strings.ToLower(format)))
	if err != nil {
		return SessionResponse{}, fmt.Errorf("invalid deck: %w", err)
	}

	var snap domain.Snapshot
	if id == "" {
		id, snap, err = s.sessions.Create(ctx, d)
	} else {
		snap, err = s.sessions.Open(ctx, id, d)
	}
	if err != nil {
		return SessionResponse{}, fmt.Errorf("load failed: %w", err)
	}
	s.logger.Info("MCP: Deck loaded", "session_id", id, "topic", d.Topic)
	return SessionResponse{SessionID: id, Snapshot: snap}, nil
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	input, _ := args["command"].(string)

	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("MCP Dispatch: Input rejected", "err", err, "size", len(input))
		return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	cmd, err := domain.ParseCommand(clean)
	if err != nil {
		return SessionResponse{}, err
	}

	snap, err := s.sessions.Dispatch(ctx, id, cmd)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("dispatch failed: %w", err)
	}
	return SessionResponse{SessionID: id, Snapshot: snap}, nil
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	snap, err := s.sessions.Snapshot(ctx, id)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{SessionID: id, Snapshot: snap}, nil
}

func (s *Server) handleRenderSlide(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	id, _ := args["session_id"].(string)
	format, _ := args["format"].(string)

	var out string
	err := s.sessions.With(ctx, id, func(_ context.Context, p *lectern.Presenter) error {
		switch format {
		case "", "md", "markdown":
			out = markdown.Render(p.View())
		case "html":
			out = html.String(p.View())
		case "json":
			data, err := json.Marshal(p.View())
			if err != nil {
				return err
			}
			out = string(data)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) registerResources() {
	// EXPOSE: lectern://sessions
	s.mcpServer.AddResource(mcp.NewResource(SessionsURI, "Open Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.sessionsJSON(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      SessionsURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

// sessionsJSON returns the snapshot of every session, ordered by id.
func (s *Server) sessionsJSON(ctx context.Context) (string, error) {
	snaps := make([]domain.Snapshot, 0)
	for _, id := range s.sessions.List() {
		snap, err := s.sessions.Snapshot(ctx, id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue // deleted since List
		}
		if err != nil {
			return "", err
		}
		snaps = append(snaps, snap)
	}
	data, err := json.Marshal(snaps)
	return string(data), err
}
