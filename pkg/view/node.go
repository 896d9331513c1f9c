// Package view holds the visual tree a slide is rendered into.
//
// The tree is a small, DOM-like structure: every Node has an element kind,
// CSS-style classes, an optional semantic role, text, attributes and children.
// Nodes carrying a reveal tag are the targets of the reveal controller, which
// toggles their hidden flag.
package view

import (
	"slices"
	"strings"

	"github.com/aretw0/lectern/pkg/ports"
)

// Roles used by the renderer to mark the regions of a slide.
const (
	RoleSlide   = "slide"
	RoleContent = "content"
	RoleText    = "text"
	RoleVisual  = "visual"
)

// Node is one element of the visual tree.
type Node struct {
	Kind     string            `json:"kind"`
	Classes  []string          `json:"classes,omitempty"`
	Role     string            `json:"role,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Step     int               `json:"step,omitempty"`
	Hidden   bool              `json:"hidden,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// El creates an element with the given kind and classes.
func El(kind string, classes ...string) *Node {
	return &Node{Kind: kind, Classes: classes}
}

// Txt creates an element holding text.
func Txt(kind, text string, classes ...string) *Node {
	return &Node{Kind: kind, Text: text, Classes: classes}
}

// WithRole sets the semantic role and returns n.
func (n *Node) WithRole(role string) *Node {
	n.Role = role
	return n
}

// WithAttr sets an attribute and returns n.
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Tag marks n as a reveal target with the given 1-based step and returns n.
func (n *Node) Tag(step int) *Node {
	n.Step = step
	return n
}

// Append adds children in order and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Clear removes every child.
func (n *Node) Clear() {
	n.Children = nil
}

// HasClass reports whether n carries class c.
func (n *Node) HasClass(c string) bool {
	return slices.Contains(n.Classes, c)
}

// ClassName joins the classes with spaces.
func (n *Node) ClassName() string {
	return strings.Join(n.Classes, " ")
}

// Walk visits n and its descendants depth-first in document order.
// Returning false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindRole returns the first node in document order with the given role.
func (n *Node) FindRole(role string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Role == role {
			found = x
			return false
		}
		return true
	})
	return found
}

// FindClass returns every node carrying class c, in document order.
func (n *Node) FindClass(c string) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.HasClass(c) {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Tagged returns every reveal-tagged node in document order.
func (n *Node) Tagged() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.Step > 0 {
			out = append(out, x)
		}
		return true
	})
	return out
}

// RevealTargets implements ports.RevealScope.
func (n *Node) RevealTargets() []ports.RevealTarget {
	tagged := n.Tagged()
	out := make([]ports.RevealTarget, len(tagged))
	for i, t := range tagged {
		out[i] = t
	}
	return out
}

// RevealStep implements ports.RevealTarget.
func (n *Node) RevealStep() int { return n.Step }

// SetHidden implements ports.RevealTarget.
func (n *Node) SetHidden(hidden bool) { n.Hidden = hidden }

// Visible returns a deep copy of n without hidden subtrees, or nil if n itself is hidden.
func (n *Node) Visible() *Node {
	if n == nil || n.Hidden {
		return nil
	}
	cp := n.shallowCopy()
	for _, c := range n.Children {
		if v := c.Visible(); v != nil {
			cp.Children = append(cp.Children, v)
		}
	}
	return cp
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := n.shallowCopy()
	for _, c := range n.Children {
		cp.Children = append(cp.Children, c.Clone())
	}
	return cp
}

func (n *Node) shallowCopy() *Node {
	cp := &Node{
		Kind:    n.Kind,
		Classes: slices.Clone(n.Classes),
		Role:    n.Role,
		Text:    n.Text,
		Step:    n.Step,
		Hidden:  n.Hidden,
	}
	if n.Attrs != nil {
		cp.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			cp.Attrs[k] = v
		}
	}
	return cp
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Role != b.Role || a.Text != b.Text ||
		a.Step != b.Step || a.Hidden != b.Hidden ||
		!slices.Equal(a.Classes, b.Classes) || len(a.Attrs) != len(b.Attrs) ||
		len(a.Children) != len(b.Children) {
		return false
	}
	for k, v := range a.Attrs {
		if bv, ok := b.Attrs[k]; !ok || bv != v {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// TextContent concatenates the text of n and its descendants, separated by spaces.
func (n *Node) TextContent() string {
	var parts []string
	n.Walk(func(x *Node) bool {
		if x.Text != "" {
			parts = append(parts, x.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}
