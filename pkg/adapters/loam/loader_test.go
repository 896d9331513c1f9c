package loam

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/internal/testutils"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRevolution(t *testing.T, dir string) {
	testutils.WriteFile(t, dir, "deck.md", `---
topic: French Revolution
sub_topics:
  - id: hist2
    name: The Terror
  - id: hist1
    name: Causes
---
`)
	testutils.WriteFile(t, dir, "hist1/b-estates.md", `---
order: 2
title: The Three Estates
layout: layout-split-balanced
contentBlocks:
  - type: statistics
    stats:
      - value: 98%
        label: Third estate
---
Most people belonged to the third estate.`)
	testutils.WriteFile(t, dir, "hist1/a-debt.md", `---
order: 1
title: Royal Debt
points:
  - Wars
  - Court spending
---
`)
	testutils.WriteFile(t, dir, "hist2/robespierre.md", `---
title: Robespierre
layout: left
has_image: true
---
`)
}

func TestLoader_Contract(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	seedRevolution(t, dir)

	ports.RunDeckSourceContract(t, New(loam.NewTypedRepository[Metadata](repo)))
}

func TestLoader_AssemblesDeck(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	seedRevolution(t, dir)

	d, err := New(loam.NewTypedRepository[Metadata](repo)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "French Revolution", d.Topic)
	require.Len(t, d.SubTopics, 2)
	assert.Equal(t, domain.SubTopic{ID: "hist2", Name: "The Terror"}, d.SubTopics[0], "manifest order wins")

	slides := d.SlidesFor("hist1")
	require.Len(t, slides, 2)
	assert.Equal(t, "Royal Debt", slides[0].Title)
	assert.Equal(t, []string{"Wars", "Court spending"}, slides[0].Points)
	assert.Equal(t, "The Three Estates", slides[1].Title)
	assert.Equal(t, "Most people belonged to the third estate.", slides[1].Narration)
	require.Len(t, slides[1].Blocks, 1)
	assert.Equal(t, domain.KindStatistics, slides[1].Blocks[0].Kind())

	r := d.SlidesFor("hist2")[0]
	assert.Equal(t, domain.LayoutLeft, r.Layout)
	assert.True(t, r.Image.Generate)
	assert.Equal(t, "hist2/robespierre", r.ID)
}

func TestLoader_WithoutManifest(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFile(t, dir, "zeta/one.md", "---\ntitle: Z\n---\n")
	testutils.WriteFile(t, dir, "alpha/one.md", "---\ntitle: A\n---\n")
	testutils.WriteFile(t, dir, "stray.md", "---\ntitle: Nowhere\n---\n")

	d, err := New(loam.NewTypedRepository[Metadata](repo)).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, d.SubTopics, 2)
	assert.Equal(t, "alpha", d.SubTopics[0].ID)
	assert.Equal(t, "zeta", d.SubTopics[1].ID)
	assert.Equal(t, 2, d.SlideCount())
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "hist1/a", trimExtension("hist1/a.md"))
	assert.Equal(t, "deck", trimExtension("deck"))
}
