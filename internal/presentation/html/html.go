// Package html serializes view trees to HTML.
//
// Reveal state is kept in the markup: tagged nodes carry data-step and hidden
// nodes the boolean hidden attribute, so a page can show the current step
// without any script.
package html

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aretw0/lectern/pkg/view"
)

// Convert maps a view tree to an html node tree.
func Convert(n *view.Node) *xhtml.Node {
	el := element(n.Kind)
	if len(n.Classes) > 0 {
		el.Attr = append(el.Attr, xhtml.Attribute{Key: "class", Val: n.ClassName()})
	}
	if n.Role != "" {
		el.Attr = append(el.Attr, xhtml.Attribute{Key: "data-role", Val: n.Role})
	}
	if n.Step > 0 {
		el.Attr = append(el.Attr, xhtml.Attribute{Key: "data-step", Val: strconv.Itoa(n.Step)})
	}
	if n.Hidden {
		el.Attr = append(el.Attr, xhtml.Attribute{Key: "hidden"})
	}

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el.Attr = append(el.Attr, xhtml.Attribute{Key: k, Val: n.Attrs[k]})
	}

	if n.Text != "" {
		el.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: n.Text})
	}
	for _, c := range n.Children {
		el.AppendChild(Convert(c))
	}
	return el
}

// Render writes the HTML of n to w.
func Render(w io.Writer, n *view.Node) error {
	if n == nil {
		return nil
	}
	return xhtml.Render(w, Convert(n))
}

// String returns the HTML of n.
func String(n *view.Node) string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// Page describes a standalone viewer page for one session.
type Page struct {
	Title  string
	Status string
	Slide  *view.Node
	// Action is the URL the navigation forms post to.
	Action      string
	PrevEnabled bool
	NextEnabled bool
}

const pageStyle = `[hidden]{display:none}
body{font-family:system-ui,sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem}
.slide-text,.slide-visual{display:inline-block;vertical-align:top;width:48%}
.slide-image{max-width:100%}
nav form{display:inline}`

// WritePage writes a complete HTML document with backward/forward controls.
func WritePage(w io.Writer, p Page) error {
	doc := &xhtml.Node{Type: xhtml.DocumentNode}
	doc.AppendChild(&xhtml.Node{Type: xhtml.DoctypeNode, Data: "html"})

	root := element("html")
	head := element("head")
	head.AppendChild(withAttr(element("meta"), "charset", "utf-8"))
	head.AppendChild(text(element("title"), p.Title))
	head.AppendChild(text(element("style"), pageStyle))
	root.AppendChild(head)

	body := element("body")
	if p.Slide != nil {
		body.AppendChild(Convert(p.Slide))
	}

	nav := element("nav")
	nav.AppendChild(control(p.Action, "previous", "Backward", p.PrevEnabled))
	nav.AppendChild(control(p.Action, "next", "Forward", p.NextEnabled))
	nav.AppendChild(control(p.Action, "prev_slide", "Previous slide", true))
	nav.AppendChild(control(p.Action, "next_slide", "Next slide", true))
	nav.AppendChild(text(withAttr(element("span"), "class", "indicator"), p.Status))
	body.AppendChild(nav)

	root.AppendChild(body)
	doc.AppendChild(root)

	if err := xhtml.Render(w, doc); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func control(action, command, label string, enabled bool) *xhtml.Node {
	form := withAttr(withAttr(element("form"), "method", "post"), "action", action)
	input := withAttr(withAttr(withAttr(element("input"), "type", "hidden"), "name", "command"), "value", command)
	button := text(withAttr(element("button"), "type", "submit"), label)
	if !enabled {
		button.Attr = append(button.Attr, xhtml.Attribute{Key: "disabled"})
	}
	form.AppendChild(input)
	form.AppendChild(button)
	return form
}

func element(kind string) *xhtml.Node {
	return &xhtml.Node{Type: xhtml.ElementNode, Data: kind, DataAtom: atom.Lookup([]byte(kind))}
}

func withAttr(n *xhtml.Node, key, val string) *xhtml.Node {
	n.Attr = append(n.Attr, xhtml.Attribute{Key: key, Val: val})
	return n
}

func text(n *xhtml.Node, s string) *xhtml.Node {
	n.AppendChild(&xhtml.Node{Type: xhtml.TextNode, Data: s})
	return n
}
