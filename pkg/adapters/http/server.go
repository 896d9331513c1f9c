// Package http exposes presenter sessions over HTTP.
//
// Clients create a session by posting a deck, then drive it with commands and
// follow it through server-sent snapshot diffs. A plain HTML viewer with
// backward/forward forms is served for each session.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/internal/presentation/html"
	"github.com/aretw0/lectern/internal/presentation/markdown"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/session"
)

// MaxDeckSize bounds the body of a session creation request.
const MaxDeckSize = 8 << 20

// Server serves the session API.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	spec     *openapi3.T
	parser   *compiler.Parser
	gatherer prometheus.Gatherer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer mounts /metrics for g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMetrics keeps the open sessions gauge of m up to date.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a Server over mgr. It fails if the embedded API document is invalid.
func NewServer(ctx context.Context, mgr *session.Manager, opts ...Option) (*Server, error) {
	spec, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	s := &Server{
		Sessions: mgr,
		spec:     spec,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	s.parser = compiler.NewParser(s.logger)
	return s, nil
}

// Router returns the chi router with every route registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", s.GetSpec)
	r.Get("/events", s.SubscribeReloads)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/sessions", s.ListSessions)
	r.Post("/sessions", s.CreateSession)
	r.Get("/sessions/{id}", s.GetSession)
	r.Delete("/sessions/{id}", s.DeleteSession)
	r.Post("/sessions/{id}/commands", s.DispatchCommand)
	r.Get("/sessions/{id}/slide", s.GetSlide)
	r.Get("/sessions/{id}/view", s.GetView)
	r.Get("/sessions/{id}/events", s.SubscribeEvents)
	return r
}

// Handler returns the full HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return enableCORS(s.Router())
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Open registers a session under a fixed id, e.g. the deck given on the command line.
func (s *Server) Open(ctx context.Context, id string, d *domain.Deck) (domain.Snapshot, error) {
	snap, err := s.Sessions.Open(ctx, id, d)
	if err == nil {
		s.sessionsChanged()
	}
	return snap, err
}

// Reload swaps the deck of a session and notifies its streams and the reload stream.
func (s *Server) Reload(ctx context.Context, id, source string, d *domain.Deck) error {
	before, err := s.Sessions.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	after, err := s.Sessions.Reload(ctx, id, d)
	if err != nil {
		return err
	}
	s.broadcastDiff(id, &before, &after)

	notice, _ := json.Marshal(map[string]string{"event": "reload", "session_id": id, "source": source})
	s.Streams.Broadcast(globalStream, string(notice))
	return nil
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "lectern-http",
		"version":     strings.TrimSpace(lectern.Version),
		"api_version": apiVersion,
	})
}

// GetSpec handles the GET /openapi.yaml request.
func (s *Server) GetSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(rawSpec)
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.List())
}

type sessionCreated struct {
	ID       string          `json:"id"`
	Snapshot domain.Snapshot `json:"snapshot"`
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDeckSize))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	d, err := s.parser.Parse(data, compiler.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}

	id, snap, err := s.Sessions.Create(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.sessionsChanged()
	s.logger.Info("Session created", "session_id", id, "topic", d.Topic)

	w.Header().Set("Location", "/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionCreated{ID: id, Snapshot: snap})
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.Streams.CloseSession(id)
	s.sessionsChanged()
	w.WriteHeader(http.StatusNoContent)
}

type commandRequest struct {
	Command  string `json:"command"`
	Step     *int   `json:"step,omitempty"`
	SubTopic string `json:"sub_topic,omitempty"`
}

func (c commandRequest) toCommand() (domain.Command, error) {
	text := strings.TrimSpace(c.Command)
	switch {
	case c.Step != nil:
		text = fmt.Sprintf("%s %d", text, *c.Step)
	case c.SubTopic != "":
		text = text + " " + c.SubTopic
	}
	return domain.ParseCommand(text)
}

// DispatchCommand handles the POST /sessions/{id}/commands request.
// JSON bodies get the snapshot back; form posts from the viewer are redirected to it.
func (s *Server) DispatchCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	form := strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")

	var req commandRequest
	if form {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		req.Command = r.PostForm.Get("command")
		req.SubTopic = r.PostForm.Get("sub_topic")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err))
		return
	}

	if err := runtime.BindQueryParameter("form", true, false, "step", r.URL.Query(), &req.Step); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	cmd, err := req.toCommand()
	if err != nil {
		s.writeError(w, err)
		return
	}

	var before, after domain.Snapshot
	err = s.Sessions.With(r.Context(), id, func(ctx context.Context, p *lectern.Presenter) error {
		before = p.Snapshot()
		err := p.Dispatch(ctx, cmd)
		after = p.Snapshot()
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.broadcastDiff(id, &before, &after)

	if form {
		http.Redirect(w, r, "/sessions/"+id+"/view", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, after)
}

// GetSlide handles the GET /sessions/{id}/slide request.
func (s *Server) GetSlide(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	var buf bytes.Buffer
	var contentType string

	err := s.Sessions.With(r.Context(), chi.URLParam(r, "id"), func(_ context.Context, p *lectern.Presenter) error {
		switch format {
		case "", "json":
			contentType = "application/json"
			return json.NewEncoder(&buf).Encode(map[string]any{
				"snapshot": p.Snapshot(),
				"view":     p.View(),
			})
		case "html":
			contentType = "text/html; charset=utf-8"
			return html.Render(&buf, p.View())
		case "md", "markdown":
			contentType = "text/markdown; charset=utf-8"
			buf.WriteString(markdown.Render(p.View()))
			return nil
		default:
			return fmt.Errorf("%w: unknown format %q", errBadRequest, format)
		}
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// GetView handles the GET /sessions/{id}/view request.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var buf bytes.Buffer

	err := s.Sessions.With(r.Context(), id, func(_ context.Context, p *lectern.Presenter) error {
		snap := p.Snapshot()
		title := snap.Topic
		if title == "" {
			title = snap.SlideTitle
		}
		return html.WritePage(&buf, html.Page{
			Title:       title,
			Status:      fmt.Sprintf("%s | slide %s | step %s", snap.SubTopic, snap.Progress.Label(), snap.Indicator),
			Slide:       p.View(),
			Action:      "/sessions/" + id + "/commands",
			PrevEnabled: snap.PrevEnabled,
			NextEnabled: snap.NextEnabled,
		})
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) broadcastDiff(id string, before, after *domain.Snapshot) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	diff.SessionID = id
	if payload, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(id, string(payload))
	}
}

func (s *Server) sessionsChanged() {
	if s.metrics != nil {
		s.metrics.Sessions.Set(float64(len(s.Sessions.List())))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
