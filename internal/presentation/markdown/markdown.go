// Package markdown writes the visible part of a view tree as Markdown.
//
// Hidden subtrees are skipped, so the output is what an audience would see at
// the current reveal step.
package markdown

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/view"
)

// Render returns the Markdown for the visible part of root.
func Render(root *view.Node) string {
	v := root.Visible()
	if v == nil {
		return ""
	}
	var w writer
	w.node(v)
	return strings.TrimSpace(w.String()) + "\n"
}

type writer struct {
	strings.Builder
}

func (w *writer) block(s string) {
	if s == "" {
		return
	}
	w.WriteString(s)
	w.WriteString("\n\n")
}

func (w *writer) node(n *view.Node) {
	switch n.Kind {
	case "h1":
		w.block("# " + n.Text)
	case "h2":
		w.block("## " + n.Text)
	case "h3":
		w.block("### " + n.Text)
	case "p":
		if n.HasClass("story") {
			w.block("> " + n.Text)
			return
		}
		w.block(n.Text)
	case "ul", "ol":
		w.list(n)
	case "img":
		w.block(fmt.Sprintf("![%s](%s)", n.Attrs["alt"], n.Attrs["src"]))
	default:
		if n.HasClass("stat") {
			w.stat(n)
			return
		}
		if n.HasClass("timeline-item") {
			w.timelineItem(n)
			return
		}
		if n.Text != "" {
			w.block(n.Text)
		}
		for _, c := range n.Children {
			w.node(c)
		}
	}
}

func (w *writer) list(n *view.Node) {
	var b strings.Builder
	for i, item := range n.Children {
		marker := "-"
		if n.Kind == "ol" {
			marker = fmt.Sprintf("%d.", i+1)
		}
		fmt.Fprintf(&b, "%s %s\n", marker, item.TextContent())
	}
	w.block(strings.TrimSuffix(b.String(), "\n"))
}

func (w *writer) stat(n *view.Node) {
	var value, label string
	for _, c := range n.Children {
		switch {
		case c.HasClass("stat-value"):
			value = c.Text
		case c.HasClass("stat-label"):
			label = c.Text
		}
	}
	w.block(strings.TrimSpace(fmt.Sprintf("**%s** %s", value, label)))
}

func (w *writer) timelineItem(n *view.Node) {
	var year, text string
	for _, c := range n.Children {
		switch c.Kind {
		case "h3":
			year = c.Text
		case "p":
			text = c.Text
		}
	}
	w.block(fmt.Sprintf("**%s**: %s", year, text))
}
