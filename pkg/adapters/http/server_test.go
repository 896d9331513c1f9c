package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/session"
)

const deckJSON = `{
  "topic": "Space",
  "sub_topics": [{"id": "sun", "name": "The Sun"}, {"id": "moon"}],
  "slides": {
    "sun": [
      {"title": "Fusion", "design": {"layout_mode": "layout-center"}, "points": ["hydrogen", "helium"]},
      {"title": "Light"}
    ],
    "moon": [{"title": "Tides"}]
  }
}`

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(context.Background(), session.NewManager(nil), opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createSession(t *testing.T, base string) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, base+"/sessions", "application/json", deckJSON)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created sessionCreated
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/sessions/"+created.ID, resp.Header.Get("Location"))
	assert.Equal(t, "Fusion", created.Snapshot.SlideTitle)
	assert.Equal(t, "0 / 2", created.Snapshot.Indicator)
	return created.ID
}

func snapshotOf(t *testing.T, body []byte) domain.Snapshot {
	t.Helper()
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap), string(body))
	return snap
}

func TestSpec_DocumentsEveryRoute(t *testing.T) {
	srv, err := NewServer(context.Background(), session.NewManager(nil), WithGatherer(prometheus.NewRegistry()))
	require.NoError(t, err)

	err = chi.Walk(srv.Router(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		item := srv.spec.Paths.Value(route)
		if assert.NotNil(t, item, "route %s is not documented", route) {
			assert.NotNil(t, item.GetOperation(method), "%s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestServer_SessionLifecycle(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts.URL)
	base := ts.URL + "/sessions/" + id

	resp, body := do(t, http.MethodGet, ts.URL+"/sessions", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `["`+id+`"]`, string(body))

	tests := []struct {
		name       string
		url        string
		body       string
		wantStatus int
		wantStep   int
		wantTitle  string
	}{
		{"Next", "/commands", `{"command": "next"}`, http.StatusOK, 1, "Fusion"},
		{"Goto Via Query", "/commands?step=2", `{"command": "goto"}`, http.StatusOK, 2, "Fusion"},
		{"Goto Inline", "/commands", `{"command": "goto 1"}`, http.StatusOK, 1, "Fusion"},
		{"Unknown Command", "/commands", `{"command": "dance"}`, http.StatusBadRequest, 0, ""},
		{"Malformed Body", "/commands", `{`, http.StatusBadRequest, 0, ""},
		{"Bad Step", "/commands?step=two", `{"command": "goto"}`, http.StatusBadRequest, 0, ""},
		{"Jump Unknown", "/commands", `{"command": "jump", "sub_topic": "mars"}`, http.StatusUnprocessableEntity, 0, ""},
		{"Jump", "/commands", `{"command": "jump", "sub_topic": "moon"}`, http.StatusOK, 0, "Tides"},
		{"Prev Topic", "/commands", `{"command": "prev_topic"}`, http.StatusOK, 0, "Fusion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, base+tt.url, "application/json", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, string(body), `"error"`)
				return
			}
			snap := snapshotOf(t, body)
			assert.Equal(t, tt.wantStep, snap.Step)
			assert.Equal(t, tt.wantTitle, snap.SlideTitle)
		})
	}

	resp, body = do(t, http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "The Sun", snapshotOf(t, body).SubTopic)

	resp, _ = do(t, http.MethodDelete, base, "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base, "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/commands", "application/json", `{"command": "next"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CreateSessionErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"Invalid JSON", `{"topic":`, http.StatusBadRequest},
		{"Missing Sub-Topic ID", `{"sub_topics": [{"name": "x"}], "slides": {}}`, http.StatusBadRequest},
		{"No Sub-Topics", `{"sub_topics": [], "slides": {}}`, http.StatusUnprocessableEntity},
		{"Empty First Sub-Topic", `{"sub_topics": [{"id": "a"}], "slides": {"a": []}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/sessions", "application/json", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
		})
	}

	resp, body := do(t, http.MethodGet, ts.URL+"/sessions", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_SlideFormats(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts.URL)
	base := ts.URL + "/sessions/" + id

	do(t, http.MethodPost, base+"/commands", "application/json", `{"command": "next"}`)

	resp, body := do(t, http.MethodGet, base+"/slide?format=md", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "# Fusion\n\n- hydrogen\n", string(body))

	resp, body = do(t, http.MethodGet, base+"/slide?format=html", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `<li class="point" data-step="2" hidden="">helium</li>`)

	resp, body = do(t, http.MethodGet, base+"/slide", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Snapshot domain.Snapshot `json:"snapshot"`
		View     struct {
			Kind    string   `json:"kind"`
			Classes []string `json:"classes"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, 1, payload.Snapshot.Step)
	assert.Equal(t, "div", payload.View.Kind)
	assert.Equal(t, []string{"slide-container"}, payload.View.Classes)

	resp, _ = do(t, http.MethodGet, base+"/slide?format=pdf", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ViewAndFormPost(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts.URL)
	base := ts.URL + "/sessions/" + id

	resp, body := do(t, http.MethodGet, base+"/view", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	page := string(body)
	assert.Contains(t, page, "<title>Space</title>")
	assert.Contains(t, page, `action="/sessions/`+id+`/commands"`)
	assert.Contains(t, page, `<button type="submit" disabled="">Backward</button>`)
	assert.Contains(t, page, "The Sun | slide 1 / 2 | step 0 / 2")

	form := url.Values{"command": {"next"}}.Encode()
	resp, _ = do(t, http.MethodPost, base+"/commands", "application/x-www-form-urlencoded", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/sessions/"+id+"/view", resp.Header.Get("Location"))

	_, body = do(t, http.MethodGet, base+"/view", "", "")
	assert.Contains(t, string(body), "step 1 / 2")
	assert.Contains(t, string(body), `<button type="submit">Backward</button>`)
}

func readEvent(t *testing.T, r *bufio.Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return lines
		}
		lines = append(lines, line)
	}
}

func openStream(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

func TestServer_SessionEvents(t *testing.T) {
	_, ts := newTestServer(t)
	id := createSession(t, ts.URL)
	base := ts.URL + "/sessions/" + id

	stream := openStream(t, base+"/events?watch=slide")
	assert.Equal(t, []string{"event: ping", "data: connected"}, readEvent(t, stream))

	initial := readEvent(t, stream)
	require.Len(t, initial, 1)
	assert.Contains(t, initial[0], `"slide_title":"Fusion"`)

	// A reveal step is filtered out by watch=slide; the slide move is delivered.
	do(t, http.MethodPost, base+"/commands", "application/json", `{"command": "next"}`)
	do(t, http.MethodPost, base+"/commands", "application/json", `{"command": "next_slide"}`)

	ev := readEvent(t, stream)
	require.Len(t, ev, 1)
	var diff domain.SnapshotDiff
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(ev[0], "data: ")), &diff))
	assert.Equal(t, id, diff.SessionID)
	require.NotNil(t, diff.SlideTitle)
	assert.Equal(t, "Light", *diff.SlideTitle)
	require.NotNil(t, diff.Step)
	assert.Equal(t, 0, *diff.Step)

	resp, _ := do(t, http.MethodGet, ts.URL+"/sessions/missing/events", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Reload(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx := context.Background()

	_, err := srv.Open(ctx, "default", &domain.Deck{
		SubTopics: []domain.SubTopic{{ID: "a"}},
		Slides:    map[string][]domain.Slide{"a": {{Title: "Old", Points: []string{"x"}}}},
	})
	require.NoError(t, err)

	stream := openStream(t, ts.URL+"/events")
	assert.Equal(t, []string{"event: ping", "data: connected"}, readEvent(t, stream))

	require.NoError(t, srv.Reload(ctx, "default", "deck.json", &domain.Deck{
		SubTopics: []domain.SubTopic{{ID: "a"}},
		Slides:    map[string][]domain.Slide{"a": {{Title: "New"}}},
	}))

	ev := readEvent(t, stream)
	require.Len(t, ev, 2)
	assert.Equal(t, "event: reload", ev[0])
	assert.Contains(t, ev[1], `"source":"deck.json"`)

	snap, err := srv.Sessions.Snapshot(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "New", snap.SlideTitle)

	assert.ErrorIs(t, srv.Reload(ctx, "nope", "x", nil), domain.ErrSessionNotFound)
}

func TestServer_MetricsAndInfo(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	_, ts := newTestServer(t, WithGatherer(reg), WithMetrics(m))
	createSession(t, ts.URL)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "lectern_sessions_open 1")

	resp, body = do(t, http.MethodGet, ts.URL+"/info", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "lectern-http", info["app"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.NotEmpty(t, info["version"])

	resp, body = do(t, http.MethodGet, ts.URL+"/openapi.yaml", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "openapi: 3.0.3")

	resp, _ = do(t, http.MethodGet, ts.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodOptions, ts.URL+"/sessions", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWatchFilter(t *testing.T) {
	step := `{"session_id":"s","step":1,"indicator":"1 / 2"}`
	slide := `{"session_id":"s","cursor":{"sub_topic_id":"a","index":1}}`

	assert.True(t, parseWatch("").keep(step))
	assert.True(t, parseWatch("step").keep(step))
	assert.False(t, parseWatch("step").keep(slide))
	assert.True(t, parseWatch("step, slide").keep(slide))
	assert.False(t, parseWatch("slide").keep(step))
}

func TestStreamManager_CloseSession(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe("s")
	assert.Equal(t, 1, sm.Count("s"))

	sm.CloseSession("s")
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, sm.Count("s"))

	// Unsubscribing after close must not panic.
	unsubscribe()
}
