// Package graph draws a deck outline as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the outline.
type Overlay struct {
	Visited []domain.Cursor
	Current *domain.Cursor
}

// GenerateMermaid produces a Mermaid flowchart of the deck.
// Shapes:
// - Topic: ((Circle))
// - Sub-topic: [/Parallelogram/]
// - Slide: [Rectangle], labelled with its 1-based position and title
// Sub-topics are chained with dotted arrows in presentation order; slides with
// solid arrows. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(d *domain.Deck, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if d == nil {
		return sb.String()
	}

	topic := d.Topic
	if topic == "" {
		topic = "deck"
	}
	sb.WriteString(fmt.Sprintf("    root((\"%s\"))\n", escapeLabel(topic)))

	prevTopic := "root"
	for _, st := range d.SubTopics {
		stID := "st_" + sanitizeMermaidID(st.ID)
		label := st.Label()
		if st.Difficulty != "" {
			label = fmt.Sprintf("%s <br/> %s", label, st.Difficulty)
		}
		sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", stID, escapeLabel(label)))
		if prevTopic == "root" {
			sb.WriteString(fmt.Sprintf("    root --> %s\n", stID))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", prevTopic, stID))
		}
		prevTopic = stID

		prev := stID
		for i, s := range d.Slides[st.ID] {
			id := slideID(domain.Cursor{SubTopicID: st.ID, Index: i})
			title := s.Title
			if title == "" {
				title = "untitled"
			}
			sb.WriteString(fmt.Sprintf("    %s[\"%d. %s\"]\n", id, i+1, escapeLabel(title)))
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
			prev = id
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, c := range overlay.Visited {
			id := slideID(c)
			if !seen[id] {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}
		if overlay.Current != nil {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", slideID(*overlay.Current)))
		}
	}

	return sb.String()
}

func slideID(c domain.Cursor) string {
	return fmt.Sprintf("%s_%d", sanitizeMermaidID(c.SubTopicID), c.Index)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
