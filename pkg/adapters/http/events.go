package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/lectern/pkg/domain"
)

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
// The first message carries the full snapshot; later ones only changed fields.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.Sessions.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if initial, err := json.Marshal(domain.Diff(nil, &snap)); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", initial)
	}
	flusher.Flush()
	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", id)

	watch := parseWatch(r.URL.Query().Get("watch"))

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !watch.keep(msg) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SubscribeReloads handles the GET /events request (SSE): one message per deck reload.
func (s *Server) SubscribeReloads(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.Streams.Subscribe(globalStream)
	defer cancel()

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// watchFilter selects diff messages by the fields they carry: "step" for reveal
// progress, "slide" for cursor moves. An empty filter keeps everything.
type watchFilter map[string]bool

func parseWatch(raw string) watchFilter {
	if raw == "" {
		return nil
	}
	f := watchFilter{}
	for _, field := range strings.Split(raw, ",") {
		f[strings.TrimSpace(field)] = true
	}
	return f
}

func (f watchFilter) keep(msg string) bool {
	if len(f) == 0 {
		return true
	}
	var diff domain.SnapshotDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	if f["step"] && (diff.Step != nil || diff.TotalSteps != nil || diff.Indicator != nil) {
		return true
	}
	if f["slide"] && (diff.Cursor != nil || diff.SlideTitle != nil || diff.Progress != nil) {
		return true
	}
	return false
}
