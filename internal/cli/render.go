package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/lectern/internal/presentation/graph"
	"github.com/aretw0/lectern/internal/presentation/html"
	"github.com/aretw0/lectern/internal/presentation/markdown"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/internal/render"
	"github.com/aretw0/lectern/pkg/domain"
)

// Output formats of the render command.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatANSI     = "ansi"
	FormatJSON     = "json"
)

// RenderOptions selects the slide and the reveal step to render.
type RenderOptions struct {
	Format   string
	SubTopic string // defaults to the first sub-topic
	Slide    int    // 0-based index within the sub-topic
	Step     int    // negative reveals everything
	Width    int    // wrap width of the ansi format
}

// Render writes one slide of d, revealed up to opts.Step, in opts.Format.
func Render(ctx context.Context, w io.Writer, stack *Stack, d *domain.Deck, opts RenderOptions) error {
	p := stack.NewPresenter("render")
	if err := p.Load(ctx, d); err != nil {
		return err
	}

	if opts.SubTopic != "" {
		if err := p.Dispatch(ctx, domain.Command{Type: domain.CmdJump, SubTopicID: opts.SubTopic}); err != nil {
			return err
		}
	}
	if total := len(d.SlidesFor(p.Snapshot().Cursor.SubTopicID)); opts.Slide < 0 || opts.Slide >= total {
		return fmt.Errorf("slide %d out of range [0, %d)", opts.Slide, total)
	}
	for range opts.Slide {
		if err := p.Dispatch(ctx, domain.Command{Type: domain.CmdNextSlide}); err != nil {
			return err
		}
	}

	step := opts.Step
	if step < 0 {
		step = p.Snapshot().TotalSteps
	}
	if err := p.Dispatch(ctx, domain.Command{Type: domain.CmdGoTo, Step: step}); err != nil {
		return err
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatMarkdown, "markdown":
		_, err := io.WriteString(w, markdown.Render(p.View()))
		return err
	case FormatANSI:
		width := opts.Width
		if width <= 0 {
			width = tui.DefaultWidth
		}
		out, err := tui.NewRenderer(width)(markdown.Render(p.View()))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatHTML:
		snap := p.Snapshot()
		return html.WritePage(w, html.Page{
			Title:  snap.SlideTitle,
			Status: fmt.Sprintf("%s | slide %s | step %s", snap.SubTopic, snap.Progress.Label(), snap.Indicator),
			Slide:  p.View(),
		})
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"snapshot": p.Snapshot(),
			"view":     p.View(),
		})
	default:
		return fmt.Errorf("unknown format %q (want md, html, ansi or json)", opts.Format)
	}
}

// Validate checks that d can be presented and writes a per-sub-topic summary.
// Sub-topics the cursor can never enter are reported but do not fail the deck.
func Validate(w io.Writer, d *domain.Deck) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r := render.New()
	fmt.Fprintf(w, "Topic: %s\n", d.Topic)
	for _, st := range d.SubTopics {
		if err := d.CheckSubTopic(st.ID); err != nil {
			fmt.Fprintf(w, "  %s: unreachable (%v)\n", st.ID, err)
			continue
		}
		slides := d.SlidesFor(st.ID)
		steps := 0
		for _, s := range slides {
			steps += len(r.Render(st.ID, s).Tagged())
		}
		fmt.Fprintf(w, "  %s (%s): %d slides, %d reveal steps\n", st.ID, st.Label(), len(slides), steps)
	}
	for _, id := range slices.Sorted(maps.Keys(d.Slides)) {
		if d.SubTopicIndex(id) < 0 {
			fmt.Fprintf(w, "  %s: slides without a declared sub-topic\n", id)
		}
	}
	return nil
}

// Outline writes the Mermaid diagram of d.
func Outline(w io.Writer, d *domain.Deck) error {
	_, err := io.WriteString(w, graph.GenerateMermaid(d, nil))
	return err
}
