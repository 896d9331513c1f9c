package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/pkg/domain"
)

func parseDeck(t *testing.T) *domain.Deck {
	t.Helper()
	d, err := compiler.NewParser(nil).Parse([]byte(deckJSON), compiler.FormatJSON)
	require.NoError(t, err)
	return d
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	d := parseDeck(t)

	tests := []struct {
		name     string
		opts     RenderOptions
		contains []string
		excludes []string
	}{
		{
			name:     "Markdown Fully Revealed",
			opts:     RenderOptions{Format: FormatMarkdown, Step: -1},
			contains: []string{"# Shield", "- Broad\n- Gentle slopes"},
		},
		{
			name:     "Markdown First Step",
			opts:     RenderOptions{Step: 1},
			contains: []string{"- Broad"},
			excludes: []string{"Gentle slopes"},
		},
		{
			name:     "Markdown Second Slide",
			opts:     RenderOptions{Slide: 1, Step: -1},
			contains: []string{"# Strato", "> Vesuvius buried Pompeii."},
		},
		{
			name:     "Other Sub-Topic",
			opts:     RenderOptions{SubTopic: "risk", Step: -1},
			contains: []string{"# Lahars"},
		},
		{
			name:     "HTML Page",
			opts:     RenderOptions{Format: FormatHTML, Step: 0},
			contains: []string{"<!DOCTYPE html>", "<title>Shield</title>", `data-step="1" hidden=""`, "step 0 / 2"},
		},
		{
			name:     "ANSI",
			opts:     RenderOptions{Format: FormatANSI, Step: -1, Width: 60},
			contains: []string{"Shield", "slopes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(ctx, &buf, testStack(), d, tt.opts))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), &buf, testStack(), parseDeck(t), RenderOptions{Format: FormatJSON, Step: 5}))

	var payload struct {
		Snapshot domain.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, 2, payload.Snapshot.Step, "goto clamps to the last step")
	assert.Equal(t, "Shield", payload.Snapshot.SlideTitle)
}

func TestRender_Errors(t *testing.T) {
	ctx := context.Background()
	d := parseDeck(t)
	var buf bytes.Buffer

	assert.ErrorContains(t, Render(ctx, &buf, testStack(), d, RenderOptions{Format: "pdf"}), "unknown format")
	assert.ErrorContains(t, Render(ctx, &buf, testStack(), d, RenderOptions{Slide: 2}), "out of range")
	assert.ErrorIs(t, Render(ctx, &buf, testStack(), d, RenderOptions{SubTopic: "empty"}), domain.ErrSubTopicEmpty)
	assert.ErrorIs(t, Render(ctx, &buf, testStack(), &domain.Deck{}, RenderOptions{}), domain.ErrNoSubTopics)
}

func TestValidate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Validate(&buf, parseDeck(t)))

	out := buf.String()
	assert.Contains(t, out, "Topic: Volcanoes")
	assert.Contains(t, out, "kinds (Kinds): 2 slides, 3 reveal steps")
	assert.Contains(t, out, "risk (risk): 1 slides, 0 reveal steps")
	assert.Contains(t, out, "empty: unreachable")
	assert.Contains(t, out, "orphan: slides without a declared sub-topic")

	assert.ErrorIs(t, Validate(&buf, &domain.Deck{}), domain.ErrNoSubTopics)
}

func TestOutline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Outline(&buf, parseDeck(t)))
	assert.Contains(t, buf.String(), "graph TD")
	assert.Contains(t, buf.String(), "Shield")
}
