// Package deck holds the slide data store: the loaded deck, the cursor into it,
// and the container the current slide is rendered into.
package deck

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/view"
)

// Renderer builds the view tree of a slide.
type Renderer interface {
	Render(subTopicID string, slide domain.Slide) *view.Node
}

// RenderFunc is invoked after a slide has been rendered into the container.
type RenderFunc func(cursor domain.Cursor, slide domain.Slide)

// LoadFunc is invoked once a deck is accepted, before its first slide is rendered.
type LoadFunc func(d *domain.Deck)

// Store owns the deck, the cursor and the rendered slide.
// It is not safe for concurrent use.
type Store struct {
	container *view.Node
	renderer  Renderer
	sink      ports.ProgressSink
	onRender  RenderFunc
	onLoad    LoadFunc
	logger    *slog.Logger

	deck   *domain.Deck
	cursor domain.Cursor
}

// Option defines a functional option for configuring the Store.
type Option func(*Store)

// WithProgressSink injects the progress bar/label sink.
func WithProgressSink(sink ports.ProgressSink) Option {
	return func(s *Store) {
		s.sink = sink
	}
}

// WithOnRender registers the post-render callback.
func WithOnRender(fn RenderFunc) Option {
	return func(s *Store) {
		s.onRender = fn
	}
}

// WithOnLoad registers the callback fired between accepting a deck and rendering it.
func WithOnLoad(fn LoadFunc) Option {
	return func(s *Store) {
		s.onLoad = fn
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty store that renders into container using r.
// A nil container is replaced by a fresh root node.
func NewStore(container *view.Node, r Renderer, opts ...Option) *Store {
	if container == nil {
		container = view.El("div", "slide-container")
	}
	s := &Store{container: container, renderer: r}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Load validates d and, only if it is presentable, replaces the current deck,
// moves the cursor to the first slide of the first sub-topic and renders it.
// On error nothing is modified.
func (s *Store) Load(d *domain.Deck) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid deck: %w", err)
	}
	s.deck = d
	s.cursor = domain.Cursor{SubTopicID: d.SubTopics[0].ID}
	s.logger.Debug("Deck loaded", "topic", d.Topic, "sub_topics", len(d.SubTopics))
	if s.onLoad != nil {
		s.onLoad(d)
	}
	s.RenderCurrentSlide()
	return nil
}

// Loaded reports whether a deck has been accepted.
func (s *Store) Loaded() bool { return s.deck != nil }

// Deck returns the current deck, or nil.
func (s *Store) Deck() *domain.Deck { return s.deck }

// Cursor returns the current position.
func (s *Store) Cursor() domain.Cursor { return s.cursor }

// Container returns the node the current slide is rendered into.
func (s *Store) Container() *view.Node { return s.container }

// Current returns the slide at the cursor, if any.
func (s *Store) Current() (domain.Slide, bool) {
	slides := s.deck.SlidesFor(s.cursor.SubTopicID)
	if s.cursor.Index < 0 || s.cursor.Index >= len(slides) {
		return domain.Slide{}, false
	}
	return slides[s.cursor.Index], true
}

// Progress returns the cursor position within its sub-topic.
func (s *Store) Progress() domain.Progress {
	return domain.Progress{
		Index: s.cursor.Index,
		Total: len(s.deck.SlidesFor(s.cursor.SubTopicID)),
	}
}

// RenderCurrentSlide replaces the container content with the slide at the cursor.
// It is a no-op when there is no slide at the cursor.
func (s *Store) RenderCurrentSlide() {
	slide, ok := s.Current()
	if !ok {
		s.logger.Debug("No slide at cursor", "sub_topic", s.cursor.SubTopicID, "index", s.cursor.Index)
		return
	}

	s.container.Clear()
	s.container.Append(s.renderer.Render(s.cursor.SubTopicID, slide))

	p := s.Progress()
	if s.sink != nil {
		s.sink.SetProgress(p.Fraction(), p.Label())
	}
	s.logger.Debug("Slide rendered", "sub_topic", s.cursor.SubTopicID, "index", s.cursor.Index, "total", p.Total)

	if s.onRender != nil {
		s.onRender(s.cursor, slide)
	}
}

// Next moves to the following slide of the current sub-topic.
// It saturates at the last slide and reports whether the cursor moved.
func (s *Store) Next() bool {
	if s.cursor.Index+1 >= len(s.deck.SlidesFor(s.cursor.SubTopicID)) {
		return false
	}
	s.cursor.Index++
	s.RenderCurrentSlide()
	return true
}

// Prev moves to the preceding slide, saturating at the first one.
func (s *Store) Prev() bool {
	if s.cursor.Index <= 0 || !s.Loaded() {
		return false
	}
	s.cursor.Index--
	s.RenderCurrentSlide()
	return true
}

// JumpSubTopic moves the cursor to the first slide of sub-topic id.
func (s *Store) JumpSubTopic(id string) error {
	if err := s.deck.CheckSubTopic(id); err != nil {
		return err
	}
	s.cursor = domain.Cursor{SubTopicID: id}
	s.RenderCurrentSlide()
	return nil
}

// NextSubTopic jumps to the following declared sub-topic that has slides.
// It reports whether the cursor moved.
func (s *Store) NextSubTopic() bool {
	return s.stepSubTopic(1)
}

// PrevSubTopic jumps to the preceding declared sub-topic that has slides.
func (s *Store) PrevSubTopic() bool {
	return s.stepSubTopic(-1)
}

func (s *Store) stepSubTopic(dir int) bool {
	if !s.Loaded() {
		return false
	}
	for i := s.deck.SubTopicIndex(s.cursor.SubTopicID) + dir; i >= 0 && i < len(s.deck.SubTopics); i += dir {
		id := s.deck.SubTopics[i].ID
		if s.deck.CheckSubTopic(id) == nil {
			s.cursor = domain.Cursor{SubTopicID: id}
			s.RenderCurrentSlide()
			return true
		}
	}
	return false
}
