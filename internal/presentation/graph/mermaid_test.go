package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/pkg/domain"
)

func testDeck() *domain.Deck {
	return &domain.Deck{
		Topic: "Rome \"Eternal\"",
		SubTopics: []domain.SubTopic{
			{ID: "hist-1", Name: "Origins", Difficulty: "beginner"},
			{ID: "hist-2"},
		},
		Slides: map[string][]domain.Slide{
			"hist-1": {{Title: "Founding"}, {Title: "Kings"}},
			"hist-2": {{}},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Outline Shapes",
			contains: []string{
				"graph TD\n",
				"root((\"Rome 'Eternal'\"))",
				"st_hist_1[/\"Origins <br/> beginner\"/]",
				"st_hist_2[/\"hist-2\"/]",
				"hist_1_0[\"1. Founding\"]",
				"hist_1_1[\"2. Kings\"]",
				"hist_2_0[\"1. untitled\"]",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Order Edges",
			contains: []string{
				"root --> st_hist_1",
				"st_hist_1 -.-> st_hist_2",
				"st_hist_1 --> hist_1_0",
				"hist_1_0 --> hist_1_1",
				"st_hist_2 --> hist_2_0",
			},
		},
		{
			name: "Overlay",
			overlay: &graph.Overlay{
				Visited: []domain.Cursor{{SubTopicID: "hist-1", Index: 0}, {SubTopicID: "hist-1", Index: 0}},
				Current: &domain.Cursor{SubTopicID: "hist-1", Index: 1},
			},
			contains: []string{
				"classDef visited",
				"class hist_1_0 visited;",
				"class hist_1_1 current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(testDeck(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q", unwanted)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class hist_1_0 visited;") != 1 {
				t.Errorf("visited nodes must be deduplicated")
			}
		})
	}
}

func TestGenerateMermaid_NilDeck(t *testing.T) {
	if got := graph.GenerateMermaid(nil, nil); got != "graph TD\n" {
		t.Errorf("unexpected output %q", got)
	}
}
