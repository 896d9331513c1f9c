package render

import (
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/view"
)

func renderBlock(b domain.Block) *view.Node {
	root := view.El("div", "block", "block-"+string(b.Kind()))

	switch v := b.(type) {
	case domain.Timeline:
		timeline(root, v)
	case domain.Explanation:
		explanation(root, v)
	case domain.Comparison:
		comparison(root, v)
	case domain.Statistics:
		statistics(root, v)
	case domain.Story:
		root.Append(view.Txt("p", v.Text, "story"))
	case domain.Takeaways:
		takeaways(root, v)
	}
	return root
}

func timeline(root *view.Node, t domain.Timeline) {
	list := view.El("div", "timeline")
	for _, e := range t.Events {
		list.Append(view.El("div", "timeline-item").Append(
			view.Txt("h3", e.Year, "timeline-year"),
			view.Txt("p", e.Description, "timeline-text"),
		))
	}
	root.Append(list)
}

func explanation(root *view.Node, e domain.Explanation) {
	for _, p := range e.Paragraphs {
		root.Append(view.Txt("p", p))
	}
}

func comparison(root *view.Node, c domain.Comparison) {
	for _, side := range []domain.ComparisonSide{c.Left, c.Right} {
		items := view.El("ul")
		for _, p := range side.Points {
			items.Append(view.Txt("li", p))
		}
		root.Append(view.El("div", "comparison-side").Append(
			view.Txt("h3", side.Title),
			items,
		))
	}
}

func statistics(root *view.Node, s domain.Statistics) {
	for _, st := range s.Stats {
		root.Append(view.El("div", "stat").Append(
			view.Txt("span", st.Value, "stat-value"),
			view.Txt("span", st.Label, "stat-label"),
		))
	}
}

func takeaways(root *view.Node, t domain.Takeaways) {
	list := view.El("ul", "takeaways")
	for _, p := range t.Points {
		list.Append(view.Txt("li", p))
	}
	root.Append(list)
}
