package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/session"
)

const deckYAML = `
topic: Rivers
sub_topics:
  - id: nile
    name: The Nile
slides:
  nile:
    - title: Source
      points: [Lake Victoria, Ethiopian highlands]
    - title: Delta
`

func renderArgs(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "render_slide"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestServer_Tools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(session.NewManager(nil))

	loaded, err := s.handleLoadDeck(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"deck":       deckYAML,
		"format":     "yaml",
		"session_id": "river",
	})
	require.NoError(t, err)
	assert.Equal(t, "river", loaded.SessionID)
	assert.Equal(t, "Source", loaded.Snapshot.SlideTitle)
	assert.Equal(t, 2, loaded.Snapshot.TotalSteps)

	res, err := s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "river",
		"command":    "goto 1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Snapshot.Step)

	out, err := s.handleRenderSlide(ctx, renderArgs(map[string]any{"session_id": "river"}))
	require.NoError(t, err)
	assert.False(t, out.IsError)
	assert.Equal(t, "# Source\n\n- Lake Victoria\n", resultText(t, out))

	out, err = s.handleRenderSlide(ctx, renderArgs(map[string]any{"session_id": "river", "format": "html"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, out), `hidden=""`)

	res, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "river",
		"command":    "next_slide",
	})
	require.NoError(t, err)
	assert.Equal(t, "Delta", res.Snapshot.SlideTitle)

	snap, err := s.handleSnapshot(ctx, mcp.CallToolRequest{}, map[string]interface{}{"session_id": "river"})
	require.NoError(t, err)
	assert.Equal(t, res.Snapshot, snap.Snapshot)
}

func TestServer_ToolErrors(t *testing.T) {
	ctx := context.Background()
	s := NewServer(session.NewManager(nil))

	_, err := s.handleLoadDeck(ctx, mcp.CallToolRequest{}, map[string]interface{}{"deck": ""})
	assert.Error(t, err)

	_, err = s.handleLoadDeck(ctx, mcp.CallToolRequest{}, map[string]interface{}{"deck": `{"sub_topics": []}`})
	assert.ErrorIs(t, err, domain.ErrNoSubTopics)

	_, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": "ghost",
		"command":    "next",
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	loaded, err := s.handleLoadDeck(ctx, mcp.CallToolRequest{}, map[string]interface{}{"deck": deckYAML, "format": "yaml"})
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.SessionID)

	_, err = s.handleDispatch(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"session_id": loaded.SessionID,
		"command":    "dance",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)

	out, err := s.handleRenderSlide(ctx, renderArgs(map[string]any{"session_id": loaded.SessionID, "format": "pdf"}))
	require.NoError(t, err)
	assert.True(t, out.IsError)
}

func TestServer_SessionsResource(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(nil)
	s := NewServer(mgr)

	text, err := s.sessionsJSON(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, text)

	for _, id := range []string{"b", "a"} {
		_, err := s.handleLoadDeck(ctx, mcp.CallToolRequest{}, map[string]interface{}{
			"deck": deckYAML, "format": "yaml", "session_id": id,
		})
		require.NoError(t, err)
	}

	text, err = s.sessionsJSON(ctx)
	require.NoError(t, err)
	var snaps []domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(text), &snaps))
	require.Len(t, snaps, 2)
	assert.Equal(t, "a", snaps[0].SessionID)
	assert.Equal(t, "b", snaps[1].SessionID)
}
