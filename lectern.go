package lectern

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/lectern/internal/render"
	"github.com/aretw0/lectern/pkg/deck"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/reveal"
	"github.com/aretw0/lectern/pkg/view"
)

// Presenter is the high-level entry point for the Lectern library.
// It owns one slide store and one reveal controller bound to the same container,
// and re-initializes the controller every time a slide is rendered.
//
// A Presenter is not safe for concurrent use. Use pkg/session to share one
// across goroutines.
type Presenter struct {
	id        string
	container *view.Node
	store     *deck.Store
	reveal    *reveal.Controller

	hooks  domain.LifecycleHooks
	logger *slog.Logger

	// ctx is the context of the Load or Dispatch call in progress; hooks receive it.
	ctx context.Context

	imagesRoot string
	imageExt   string
	prev, next ports.Control
	indicator  ports.Indicator
	sink       ports.ProgressSink
	onStep     reveal.StepChangeFunc
}

// Option defines a functional option for configuring the Presenter.
type Option func(*Presenter)

// WithID sets the session identifier reported in snapshots and events.
func WithID(id string) Option {
	return func(p *Presenter) {
		p.id = id
	}
}

// WithLogger sets a custom structured logger for the presenter.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Presenter) {
		p.hooks = hooks
	}
}

// WithImagesRoot sets the root directory of generated slide images.
func WithImagesRoot(root string) Option {
	return func(p *Presenter) {
		p.imagesRoot = root
	}
}

// WithImageExt sets the extension of generated slide images.
func WithImageExt(ext string) Option {
	return func(p *Presenter) {
		p.imageExt = ext
	}
}

// WithControls injects the backward and forward reveal controls.
func WithControls(prev, next ports.Control) Option {
	return func(p *Presenter) {
		p.prev, p.next = prev, next
	}
}

// WithStepIndicator injects the "current / total" reveal indicator.
func WithStepIndicator(ind ports.Indicator) Option {
	return func(p *Presenter) {
		p.indicator = ind
	}
}

// WithProgressSink injects the slide progress sink.
func WithProgressSink(sink ports.ProgressSink) Option {
	return func(p *Presenter) {
		p.sink = sink
	}
}

// WithOnStepChange registers a callback observing reveal progress.
func WithOnStepChange(fn func(current, total int)) Option {
	return func(p *Presenter) {
		p.onStep = fn
	}
}

// New creates a Presenter with no deck loaded.
func New(opts ...Option) *Presenter {
	p := &Presenter{ctx: context.Background()}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.id != "" {
		p.logger = p.logger.With("session_id", p.id)
	}

	p.container = view.El("div", "slide-container")
	p.reveal = reveal.New(
		reveal.WithControls(p.prev, p.next),
		reveal.WithIndicator(p.indicator),
		reveal.WithOnStepChange(p.stepChanged),
		reveal.WithLogger(p.logger),
	)
	p.store = deck.NewStore(
		p.container,
		render.New(render.WithImagesRoot(p.imagesRoot), render.WithImageExt(p.imageExt)),
		deck.WithProgressSink(p.sink),
		deck.WithOnLoad(p.deckLoaded),
		deck.WithOnRender(p.slideRendered),
		deck.WithLogger(p.logger),
	)
	return p
}

// ID returns the session identifier, if any.
func (p *Presenter) ID() string { return p.id }

// Load replaces the deck. Invalid decks are rejected without touching the current one.
func (p *Presenter) Load(ctx context.Context, d *domain.Deck) error {
	defer p.bind(ctx)()

	return p.store.Load(d)
}

// LoadFrom reads a deck from src and loads it.
func (p *Presenter) LoadFrom(ctx context.Context, src ports.DeckSource) error {
	d, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deck: %w", err)
	}
	return p.Load(ctx, d)
}

// Dispatch applies a single command. Navigation past any bound is a silent no-op.
func (p *Presenter) Dispatch(ctx context.Context, cmd domain.Command) error {
	if !p.store.Loaded() {
		return domain.ErrNoDeck
	}
	defer p.bind(ctx)()

	p.logger.Debug("Dispatch", "command", cmd.String())

	if cmd.IsReveal() {
		return p.reveal.Dispatch(cmd)
	}

	switch cmd.Type {
	case domain.CmdNextSlide:
		p.store.Next()
	case domain.CmdPrevSlide:
		p.store.Prev()
	case domain.CmdJump:
		return p.store.JumpSubTopic(cmd.SubTopicID)
	case domain.CmdNextTopic:
		p.store.NextSubTopic()
	case domain.CmdPrevTopic:
		p.store.PrevSubTopic()
	case domain.CmdAdvance:
		if p.reveal.Current() < p.reveal.Total() {
			return p.reveal.Next()
		}
		p.store.Next()
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Type)
	}
	return nil
}

// Snapshot returns the current position of the presenter.
func (p *Presenter) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		SessionID: p.id,
		Loaded:    p.store.Loaded(),
	}
	if !snap.Loaded {
		return snap
	}

	d := p.store.Deck()
	snap.Topic = d.Topic
	snap.Cursor = p.store.Cursor()
	if st, ok := d.SubTopic(snap.Cursor.SubTopicID); ok {
		snap.SubTopic = st.Label()
	}
	if s, ok := p.store.Current(); ok {
		snap.SlideTitle = s.Title
	}
	snap.Progress = p.store.Progress()
	snap.Step = p.reveal.Current()
	snap.TotalSteps = p.reveal.Total()
	snap.Indicator = p.reveal.Indicator()
	snap.PrevEnabled = snap.Step != 0
	snap.NextEnabled = snap.Step != snap.TotalSteps
	return snap
}

// View returns the container holding the rendered slide, hidden elements included.
// Callers must not mutate it.
func (p *Presenter) View() *view.Node { return p.container }

// Slide returns the slide at the cursor.
func (p *Presenter) Slide() (domain.Slide, bool) { return p.store.Current() }

// Deck returns the loaded deck, or nil.
func (p *Presenter) Deck() *domain.Deck { return p.store.Deck() }

func (p *Presenter) deckLoaded(d *domain.Deck) {
	p.logger.Info("Deck loaded", "topic", d.Topic, "sub_topics", len(d.SubTopics), "slides", d.SlideCount())
	if p.hooks.OnLoad != nil {
		p.hooks.OnLoad(p.ctx, &domain.DeckEvent{
			EventBase: p.event(domain.EventDeckLoad),
			Topic:     d.Topic,
			SubTopics: len(d.SubTopics),
			Slides:    d.SlideCount(),
		})
	}
}

func (p *Presenter) slideRendered(cursor domain.Cursor, slide domain.Slide) {
	if p.hooks.OnSlideRender != nil {
		p.hooks.OnSlideRender(p.ctx, &domain.SlideEvent{
			EventBase: p.event(domain.EventSlideRender),
			Cursor:    cursor,
			Title:     slide.Title,
			Progress:  p.store.Progress(),
		})
	}
	// Every freshly rendered slide starts fully hidden.
	p.reveal.Init(p.container)
}

func (p *Presenter) stepChanged(current, total int) {
	if p.onStep != nil {
		p.onStep(current, total)
	}
	if p.hooks.OnStepChange != nil {
		p.hooks.OnStepChange(p.ctx, &domain.StepEvent{
			EventBase: p.event(domain.EventStepChange),
			Cursor:    p.store.Cursor(),
			Current:   current,
			Total:     total,
		})
	}
}

func (p *Presenter) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: p.id}
}

// bind exposes ctx to hooks for the duration of a call and returns the restore func.
func (p *Presenter) bind(ctx context.Context) func() {
	prev := p.ctx
	p.ctx = ctx
	return func() { p.ctx = prev }
}
