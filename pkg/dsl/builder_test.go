package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
)

func TestBuilder_SimpleDeck(t *testing.T) {
	// 1. Build the deck using DSL
	b := New("Photosynthesis")

	b.SubTopic("light", "Light reactions").
		Difficulty("easy").
		Slide("Chlorophyll").
		Points("Absorbs red and blue", "Reflects green").
		Notes("Ask why leaves are green.").
		Slide("Water splitting").
		Layout(domain.LayoutCenter).
		Explanation("Water is split.", "Oxygen is released.")

	b.SubTopic("dark", "Calvin cycle").
		Slide("Fixation").
		GeneratedImage().
		Stat("6", "CO2").
		Stat("1", "Glucose").
		Event("1950", "Calvin maps the cycle")

	// 2. Compile to Source
	src, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	d, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// 3. Verify the deck
	if d.Topic != "Photosynthesis" {
		t.Errorf("Expected topic 'Photosynthesis', got '%s'", d.Topic)
	}
	if len(d.SubTopics) != 2 || d.SubTopics[0].ID != "light" || d.SubTopics[1].ID != "dark" {
		t.Fatalf("Expected sub-topics [light dark], got %+v", d.SubTopics)
	}
	if d.SubTopics[0].Difficulty != "easy" {
		t.Errorf("Expected difficulty 'easy', got '%s'", d.SubTopics[0].Difficulty)
	}

	light := d.SlidesFor("light")
	if len(light) != 2 {
		t.Fatalf("Expected 2 light slides, got %d", len(light))
	}
	if light[0].Layout != domain.DefaultLayout {
		t.Errorf("Expected default layout, got '%s'", light[0].Layout)
	}
	if len(light[0].Points) != 2 || light[0].Narration == "" {
		t.Errorf("Unexpected first slide: %+v", light[0])
	}
	if light[1].Layout != domain.LayoutCenter {
		t.Errorf("Expected center layout, got '%s'", light[1].Layout)
	}

	fixation := d.SlidesFor("dark")[0]
	if !fixation.Image.Generate {
		t.Error("Expected a generated image")
	}
	if len(fixation.Blocks) != 2 {
		t.Fatalf("Expected stats and timeline blocks, got %d", len(fixation.Blocks))
	}
	stats, ok := fixation.Blocks[0].(domain.Statistics)
	if !ok || len(stats.Stats) != 2 {
		t.Errorf("Expected consecutive stats to share a block, got %+v", fixation.Blocks[0])
	}
	if fixation.Blocks[1].Kind() != domain.KindTimeline {
		t.Errorf("Expected timeline block, got %s", fixation.Blocks[1].Kind())
	}
}

func TestBuilder_ExplicitStep(t *testing.T) {
	slide := New("t").SubTopic("a", "").
		Slide("Tags").
		At(3).Story("third").
		Story("running order").
		At(2).Stat("1", "one").
		Stat("2", "two").
		Build()

	if len(slide.Blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(slide.Blocks))
	}
	want := []int{3, 0, 2}
	for i, b := range slide.Blocks {
		if b.RevealStep() != want[i] {
			t.Errorf("Block %d: expected step %d, got %d", i, want[i], b.RevealStep())
		}
	}
	if stats := slide.Blocks[2].(domain.Statistics); len(stats.Stats) != 2 {
		t.Errorf("Expected the tagged stats block to be extended, got %d stats", len(stats.Stats))
	}
}

func TestBuilder_SubTopicIsReused(t *testing.T) {
	b := New("t")
	b.SubTopic("a", "A").Slide("one")
	b.SubTopic("a", "ignored").Slide("two")

	d := b.Deck()
	if len(d.SubTopics) != 1 || d.SubTopics[0].Name != "A" {
		t.Fatalf("Expected a single sub-topic named A, got %+v", d.SubTopics)
	}
	if len(d.SlidesFor("a")) != 2 {
		t.Errorf("Expected 2 slides, got %d", len(d.SlidesFor("a")))
	}
}

func TestBuilder_Invalid(t *testing.T) {
	if _, err := New("empty").Build(); !errors.Is(err, domain.ErrNoSubTopics) {
		t.Errorf("Expected ErrNoSubTopics, got %v", err)
	}

	b := New("t")
	b.SubTopic("a", "A")
	if _, err := b.Build(); !errors.Is(err, domain.ErrSubTopicEmpty) {
		t.Errorf("Expected ErrSubTopicEmpty, got %v", err)
	}
}
