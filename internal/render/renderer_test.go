package render_test

import (
	"testing"

	"github.com/aretw0/lectern/internal/render"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roles(n *view.Node) []string {
	var out []string
	for _, c := range n.Children {
		if c.Role != "" {
			out = append(out, c.Role)
		}
	}
	return out
}

func TestRender_SplitRoutesBlocksByRegion(t *testing.T) {
	slide := domain.Slide{
		Title:  "Causes",
		Layout: domain.ParseLayout("layout-split"),
		Blocks: []domain.Block{
			domain.Explanation{Paragraphs: []string{"Debt and famine."}},
			domain.Statistics{Stats: []domain.Statistic{{Value: "98%", Label: "Third estate"}}},
		},
	}

	root := render.New().Render("hist1", slide)

	assert.True(t, root.HasClass("layout-split"))
	assert.Equal(t, []string{view.RoleText, view.RoleVisual}, roles(root))

	text := root.FindRole(view.RoleText)
	visual := root.FindRole(view.RoleVisual)
	require.Len(t, text.Children, 1)
	require.Len(t, visual.Children, 1)
	assert.True(t, text.Children[0].HasClass("block-explanation"))
	assert.True(t, visual.Children[0].HasClass("block-statistics"))
}

func TestRender_LayoutRegionOrder(t *testing.T) {
	tests := []struct {
		layout domain.Layout
		want   []string
	}{
		{domain.LayoutSplit, []string{view.RoleText, view.RoleVisual}},
		{domain.LayoutRight, []string{view.RoleText, view.RoleVisual}},
		{domain.LayoutLeft, []string{view.RoleVisual, view.RoleText}},
		{domain.LayoutCenter, []string{view.RoleContent}},
		{"", []string{view.RoleText, view.RoleVisual}},
	}

	for _, tt := range tests {
		t.Run(string(tt.layout), func(t *testing.T) {
			root := render.New().Render("a", domain.Slide{Title: "x", Layout: tt.layout})
			assert.Equal(t, tt.want, roles(root))
		})
	}
}

func TestRender_CenterKeepsDeclarationOrder(t *testing.T) {
	slide := domain.Slide{
		Layout: domain.LayoutCenter,
		Points: []string{"p"},
		Blocks: []domain.Block{
			domain.Timeline{Events: []domain.TimelineEvent{{Year: "1789", Description: "Bastille"}}},
			domain.Story{Text: "Once upon a time"},
		},
	}

	body := render.New().Render("a", slide).FindRole(view.RoleContent)
	require.Len(t, body.Children, 3)
	assert.True(t, body.Children[0].HasClass("points"))
	assert.True(t, body.Children[1].HasClass("block-timeline"))
	assert.True(t, body.Children[2].HasClass("block-story"))
}

func TestRender_RevealTags(t *testing.T) {
	slide := domain.Slide{
		Points: []string{"one", "two"},
		Blocks: []domain.Block{
			domain.Statistics{},
			domain.Explanation{Cue: domain.Cue{Step: 1}},
			domain.Takeaways{Points: []string{"t"}},
		},
	}

	root := render.New().Render("a", slide)

	points := root.FindClass("point")
	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].Step)
	assert.Equal(t, 2, points[1].Step)
	assert.Equal(t, 3, root.FindClass("block-statistics")[0].Step)
	assert.Equal(t, 1, root.FindClass("block-explanation")[0].Step)
	assert.Equal(t, 4, root.FindClass("block-takeaways")[0].Step)
	assert.Len(t, root.RevealTargets(), 5)
}

func TestRender_PointDisplay(t *testing.T) {
	root := render.New().Render("a", domain.Slide{Points: []string{"x"}, PointDisplay: domain.PointsNumbered})
	lists := root.FindClass("points")
	require.Len(t, lists, 1)
	assert.Equal(t, "ol", lists[0].Kind)
	assert.True(t, lists[0].HasClass("points-numbered"))

	root = render.New().Render("a", domain.Slide{Points: []string{"x"}})
	assert.Equal(t, "ul", root.FindClass("points")[0].Kind)
	assert.True(t, root.FindClass("points")[0].HasClass("points-list"))
}

func TestRender_GeneratedImagePath(t *testing.T) {
	slide := domain.Slide{
		Title: "The French Revolution",
		Image: domain.Image{Generate: true},
	}

	r := render.New(render.WithImagesRoot("assets/img"), render.WithImageExt("jpg"))
	imgs := r.Render("hist1", slide).FindClass("slide-image")
	require.Len(t, imgs, 1)
	assert.Equal(t, "assets/img/hist1/The_French_Revolution.jpg", imgs[0].Attrs["src"])
	assert.Equal(t, "The French Revolution", imgs[0].Attrs["alt"])
	assert.Equal(t, view.RoleVisual, r.Render("hist1", slide).Children[2].Role)

	assert.Empty(t, r.Render("hist1", domain.Slide{Title: "No image"}).FindClass("slide-image"))
}

func TestRender_BlockBodies(t *testing.T) {
	slide := domain.Slide{
		Layout: domain.LayoutCenter,
		Blocks: []domain.Block{
			domain.Comparison{Left: domain.ComparisonSide{Title: "Before", Points: []string{"a"}}},
			domain.Statistics{Stats: []domain.Statistic{{Value: "1", Label: "x"}, {Value: "2", Label: "y"}}},
			domain.Takeaways{Points: []string{"k1", "k2"}},
		},
	}
	root := render.New().Render("a", slide)

	sides := root.FindClass("comparison-side")
	require.Len(t, sides, 2)
	assert.Equal(t, "Before", sides[0].Children[0].Text)
	assert.Len(t, sides[0].Children[1].Children, 1)
	assert.Empty(t, sides[1].Children[1].Children, "missing side renders as an empty list")

	assert.Len(t, root.FindClass("stat"), 2)
	assert.Len(t, root.FindClass("takeaways")[0].Children, 2)
}

func TestRender_Deterministic(t *testing.T) {
	slide := domain.Slide{
		Title:      "Same",
		Layout:     domain.LayoutLeft,
		Decoration: "decor-tech",
		Points:     []string{"a", "b"},
		Image:      domain.Image{Generate: true},
		Blocks: []domain.Block{
			domain.Timeline{Events: []domain.TimelineEvent{{Year: "1", Description: "d"}}},
			domain.Story{Text: "s"},
		},
	}

	r := render.New()
	a := r.Render("t", slide)
	b := r.Render("t", slide)
	assert.True(t, view.Equal(a, b))
	assert.True(t, a.HasClass("decor-tech"))
}
