package markdown_test

import (
	"testing"

	"github.com/aretw0/lectern/internal/presentation/markdown"
	"github.com/aretw0/lectern/internal/render"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/view"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	slide := domain.Slide{
		Title:        "History",
		Layout:       domain.LayoutCenter,
		PointDisplay: domain.PointsNumbered,
		Points:       []string{"first", "second"},
		Blocks: []domain.Block{
			domain.Timeline{Events: []domain.TimelineEvent{{Year: "1969", Description: "Moon"}}},
			domain.Statistics{Stats: []domain.Statistic{{Value: "42", Label: "answers"}}},
			domain.Story{Text: "Once upon a time"},
		},
		Image: domain.Image{URL: "x.png"},
	}
	root := render.New().Render("t", slide)

	want := "# History\n\n" +
		"1. first\n2. second\n\n" +
		"**1969**: Moon\n\n" +
		"**42** answers\n\n" +
		"> Once upon a time\n\n" +
		"![History](x.png)\n"
	assert.Equal(t, want, markdown.Render(root))
}

func TestRender_SkipsHidden(t *testing.T) {
	root := render.New().Render("t", domain.Slide{
		Title:  "Hidden",
		Layout: domain.LayoutCenter,
		Points: []string{"shown", "secret"},
	})
	for _, n := range root.Tagged() {
		n.SetHidden(n.Step > 1)
	}

	assert.Equal(t, "# Hidden\n\n- shown\n", markdown.Render(root))
}

func TestRender_HiddenRoot(t *testing.T) {
	n := view.Txt("p", "x")
	n.Hidden = true
	assert.Equal(t, "", markdown.Render(n))
}
