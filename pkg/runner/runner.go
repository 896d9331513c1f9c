package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/markdown"
	"github.com/aretw0/lectern/pkg/domain"
)

// Runner drives a presenter from line input.
type Runner struct {
	// Handler performs the line I/O. If nil, one is built from Input and Output.
	Handler *TextHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Input  io.Reader
	Output io.Writer

	// Headless suppresses the banner and the prompt, for pipes.
	Headless bool
	// ShowNotes prints the slide narration under each frame.
	ShowNotes bool
	// MaxInputSize overrides the sanitizer limit when positive.
	MaxInputSize int
	Renderer     ContentRenderer
}

// ContentRenderer transforms the Markdown of a frame before it is printed,
// e.g. to ANSI through glamour.
type ContentRenderer func(string) (string, error)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInput sets the command source.
func WithInput(in io.Reader) Option {
	return func(r *Runner) {
		r.Input = in
	}
}

// WithOutput sets the frame destination.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.Output = out
	}
}

// WithHeadless sets the runner to headless mode.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithNotes enables narration output.
func WithNotes(show bool) Option {
	return func(r *Runner) {
		r.ShowNotes = show
	}
}

// WithMaxInputSize overrides the maximum accepted line length.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		r.MaxInputSize = n
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// NewRunner creates a Runner on Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prints the current frame, then executes commands until quit, EOF or
// context cancellation. EOF and quit return nil; cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context, p *lectern.Presenter) error {
	if !p.Snapshot().Loaded {
		return domain.ErrNoDeck
	}
	handler := r.resolveHandler()
	handler.Output(r.Frame(p))

	for {
		line, err := handler.Input(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		case "help", "?":
			handler.Output(Help())
			continue
		case "":
			line = string(domain.CmdAdvance)
		}

		cmd, err := domain.ParseCommand(line)
		if err != nil {
			handler.Output(fmt.Sprintf("Error: %v", err))
			continue
		}

		before := p.Snapshot()
		if err := p.Dispatch(ctx, cmd); err != nil {
			r.Logger.Debug("Dispatch failed", "command", cmd.String(), "err", err)
			handler.Output(fmt.Sprintf("Error: %v", err))
			continue
		}
		after := p.Snapshot()
		if domain.Diff(&before, &after) == nil {
			// Saturated navigation: nothing changed, nothing to redraw.
			continue
		}
		handler.Output(r.Frame(p))
	}
}

// Frame renders the visible slide followed by the status line.
func (r *Runner) Frame(p *lectern.Presenter) string {
	content := markdown.Render(p.View())
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			content = rendered
		}
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(content, "\n"))
	b.WriteString("\n\n")
	b.WriteString(StatusLine(p.Snapshot()))

	if r.ShowNotes {
		if s, ok := p.Slide(); ok && s.Narration != "" {
			b.WriteString("\nNotes: ")
			b.WriteString(s.Narration)
		}
	}
	return b.String()
}

// StatusLine summarizes a snapshot as "[sub-topic] slide i / n | step c / t".
func StatusLine(s domain.Snapshot) string {
	return fmt.Sprintf("[%s] slide %s | step %s", s.SubTopic, s.Progress.Label(), s.Indicator)
}

// Help lists the accepted commands.
func Help() string {
	return strings.Join([]string{
		"Commands:",
		"  next, previous, goto N, reset        reveal steps",
		"  next_slide, prev_slide               move between slides",
		"  jump ID, next_topic, prev_topic      move between sub-topics",
		"  advance (or empty line)              reveal, then move on",
		"  quit                                 stop",
	}, "\n")
}

func (r *Runner) resolveHandler() *TextHandler {
	if r.Handler != nil {
		return r.Handler
	}
	h := NewTextHandler(r.Input, r.Output)
	if r.MaxInputSize > 0 {
		h.MaxInput = r.MaxInputSize
	}
	if r.Headless {
		h.Prompt = ""
	} else if r.Output != nil {
		fmt.Fprintln(r.Output, "--- Lectern (Runner) ---")
	}
	r.Handler = h
	return h
}

// Close stops the input pump of the handler. Run must not be called afterwards.
func (r *Runner) Close() {
	if r.Handler != nil {
		r.Handler.Close()
	}
}

// IsInterrupted reports whether err is the result of a canceled run.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
