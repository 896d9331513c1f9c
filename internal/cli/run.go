package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/runner"
)

// LocalSessionID names the presenter of the interactive commands.
const LocalSessionID = "local"

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path     string
	Headless bool
	Notes    bool
	Watch    bool

	// Input and Output default to Stdin/Stdout.
	Input  io.Reader
	Output io.Writer
}

// RunSession presents the deck at opts.Path through the line runner.
// With Watch, the deck is reloaded whenever its source changes.
func RunSession(ctx context.Context, stack *Stack, opts RunOptions) error {
	if opts.Watch && opts.Headless {
		return fmt.Errorf("--watch and --headless cannot be used together")
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	src, err := OpenSource(opts.Path, stack.Logger)
	if err != nil {
		return err
	}
	p := stack.NewPresenter(LocalSessionID)
	if err := p.LoadFrom(ctx, src); err != nil {
		return err
	}

	rOpts := []runner.Option{
		runner.WithLogger(stack.Logger),
		runner.WithInput(opts.Input),
		runner.WithOutput(opts.Output),
		runner.WithHeadless(opts.Headless),
		runner.WithNotes(opts.Notes),
		runner.WithMaxInputSize(stack.Config.MaxInputSize),
	}
	if f, ok := opts.Output.(*os.File); ok && !opts.Headless && tui.IsTerminal(f) {
		rOpts = append(rOpts, runner.WithRenderer(tui.NewRenderer(tui.TerminalWidth(f))))
	}
	r := runner.NewRunner(rOpts...)
	defer r.Close()

	if !opts.Watch {
		return HandleExecutionError(r.Run(ctx, p))
	}

	printSystemMessage(opts.Output, "Watching '%s' for changes.", opts.Path)
	for {
		next, err := runUntilChange(ctx, stack, src, r, p, opts.Output)
		if next == nil || ctx.Err() != nil {
			return HandleExecutionError(err)
		}
		// Same presenter, same runner: the input pump survives the reload.
		if err := p.Load(ctx, next); err != nil {
			stack.Logger.Error("Deck rejected", "err", err)
		}
	}
}

// runUntilChange runs r until the input ends or the source changes. It
// returns the new deck in the latter case.
func runUntilChange(ctx context.Context, stack *Stack, src ports.DeckSource, r *runner.Runner, p *lectern.Presenter, out io.Writer) (*domain.Deck, error) {
	iterCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var next *domain.Deck
	g, gctx := errgroup.WithContext(iterCtx)
	g.Go(func() error {
		defer cancel()
		return r.Run(gctx, p)
	})
	g.Go(func() error {
		return Watch(gctx, src, stack.Logger, func(_ context.Context, changed string, d *domain.Deck) error {
			if err := d.Validate(); err != nil {
				return err
			}
			printSystemMessage(out, "Change detected in '%s'.", changed)
			next = d
			cancel()
			return nil
		})
	})
	err := g.Wait()
	return next, err
}

// PresentOptions configures the full-screen presenter.
type PresentOptions struct {
	Path  string
	Notes bool
}

// Present shows the deck at opts.Path in the terminal UI.
func Present(ctx context.Context, stack *Stack, opts PresentOptions) error {
	src, err := OpenSource(opts.Path, stack.Logger)
	if err != nil {
		return err
	}
	p := stack.NewPresenter(LocalSessionID)
	if err := p.LoadFrom(ctx, src); err != nil {
		return err
	}

	width := tui.TerminalWidth(os.Stdout)
	return HandleExecutionError(tui.Run(ctx, p,
		tui.WithRenderer(tui.NewRenderer(width)),
		tui.WithNotes(opts.Notes),
		tui.WithWidth(width),
	))
}
