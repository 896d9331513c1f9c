package reveal

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// StepChangeFunc observes the reveal progress of the current slide.
type StepChangeFunc func(current, total int)

// Controller is the step-reveal state machine.
type Controller struct {
	targets     []ports.RevealTarget
	current     int
	initialized bool

	prev      ports.Control
	next      ports.Control
	indicator ports.Indicator
	onChange  StepChangeFunc
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithControls injects the backward and forward controls. Either may be nil.
func WithControls(prev, next ports.Control) Option {
	return func(c *Controller) {
		c.prev = prev
		c.next = next
	}
}

// WithIndicator injects the "current / total" text sink.
func WithIndicator(ind ports.Indicator) Option {
	return func(c *Controller) {
		c.indicator = ind
	}
}

// WithOnStepChange registers the step-change callback.
func WithOnStepChange(fn StepChangeFunc) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates an uninitialized Controller.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Init discovers the reveal targets of scope, orders them by tag (stable),
// hides all of them and resets the step to 0.
// Calling Init again, on the same or a new scope, always starts over from 0.
func (c *Controller) Init(scope ports.RevealScope) {
	var targets []ports.RevealTarget
	if scope != nil {
		targets = scope.RevealTargets()
	}
	slices.SortStableFunc(targets, func(a, b ports.RevealTarget) int {
		return a.RevealStep() - b.RevealStep()
	})

	c.targets = targets
	c.current = 0
	c.initialized = true

	c.logger.Debug("Reveal initialized", "total", len(targets))
	c.apply()
}

// Initialized reports whether Init has run at least once.
func (c *Controller) Initialized() bool { return c.initialized }

// Current returns the current step.
func (c *Controller) Current() int { return c.current }

// Total returns the number of reveal targets.
func (c *Controller) Total() int { return len(c.targets) }

// Indicator returns the "current / total" text.
func (c *Controller) Indicator() string {
	return fmt.Sprintf("%d / %d", c.current, len(c.targets))
}

// Next reveals one more element. It is a no-op when everything is revealed.
func (c *Controller) Next() error {
	if !c.initialized {
		return domain.ErrNotInitialized
	}
	if c.current >= len(c.targets) {
		return nil
	}
	c.current++
	c.apply()
	return nil
}

// Previous hides the last revealed element. It is a no-op at step 0.
func (c *Controller) Previous() error {
	if !c.initialized {
		return domain.ErrNotInitialized
	}
	if c.current <= 0 {
		return nil
	}
	c.current--
	c.apply()
	return nil
}

// GoToStep clamps n to [0, total] and jumps there.
func (c *Controller) GoToStep(n int) error {
	if !c.initialized {
		return domain.ErrNotInitialized
	}
	c.current = max(0, min(n, len(c.targets)))
	c.apply()
	return nil
}

// Reset is GoToStep(0).
func (c *Controller) Reset() error {
	return c.GoToStep(0)
}

// Dispatch routes a reveal command to the matching transition.
func (c *Controller) Dispatch(cmd domain.Command) error {
	switch cmd.Type {
	case domain.CmdNext:
		return c.Next()
	case domain.CmdPrevious:
		return c.Previous()
	case domain.CmdGoTo:
		return c.GoToStep(cmd.Step)
	case domain.CmdReset:
		return c.Reset()
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedCommand, cmd.Type)
	}
}

// apply recomputes visibility for every target, then publishes side effects.
func (c *Controller) apply() {
	for i, t := range c.targets {
		t.SetHidden(i+1 > c.current)
	}

	total := len(c.targets)
	if c.prev != nil {
		c.prev.SetEnabled(c.current != 0)
	}
	if c.next != nil {
		c.next.SetEnabled(c.current != total)
	}
	if c.indicator != nil {
		c.indicator.SetText(c.Indicator())
	}

	c.logger.Debug("Reveal step", "step", c.current, "total", total)

	if c.onChange != nil {
		c.onChange(c.current, total)
	}
}
