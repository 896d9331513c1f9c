package dsl

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
)

// Builder manages the deck construction.
type Builder struct {
	topic     string
	subTopics []*SubTopicBuilder
}

// New creates a new deck builder.
func New(topic string) *Builder {
	return &Builder{topic: topic}
}

// SubTopic declares a sub-topic in presentation order.
// If the sub-topic already exists, it returns the existing builder.
func (b *Builder) SubTopic(id, name string) *SubTopicBuilder {
	for _, st := range b.subTopics {
		if st.subTopic.ID == id {
			return st
		}
	}
	st := &SubTopicBuilder{subTopic: domain.SubTopic{ID: id, Name: name}, builder: b}
	b.subTopics = append(b.subTopics, st)
	return st
}

// Deck assembles the deck without validating it.
func (b *Builder) Deck() *domain.Deck {
	d := &domain.Deck{
		Topic:  b.topic,
		Slides: make(map[string][]domain.Slide, len(b.subTopics)),
	}
	for _, st := range b.subTopics {
		d.SubTopics = append(d.SubTopics, st.subTopic)
		slides := make([]domain.Slide, 0, len(st.slides))
		for _, s := range st.slides {
			slides = append(slides, s.slide)
		}
		d.Slides[st.subTopic.ID] = slides
	}
	return d
}

// Build validates the deck and wraps it in a memory source.
func (b *Builder) Build() (*memory.Source, error) {
	d := b.Deck()
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}
	return memory.New(d), nil
}

// SubTopicBuilder collects the slides of one sub-topic.
type SubTopicBuilder struct {
	subTopic domain.SubTopic
	slides   []*SlideBuilder
	builder  *Builder
}

// Difficulty sets the informational difficulty label.
func (st *SubTopicBuilder) Difficulty(level string) *SubTopicBuilder {
	st.subTopic.Difficulty = level
	return st
}

// Slide appends a slide to the sub-topic.
func (st *SubTopicBuilder) Slide(title string) *SlideBuilder {
	s := &SlideBuilder{slide: domain.Slide{Title: title, Layout: domain.DefaultLayout}, subTopic: st}
	st.slides = append(st.slides, s)
	return s
}

// End returns to the deck builder.
func (st *SubTopicBuilder) End() *Builder {
	return st.builder
}
