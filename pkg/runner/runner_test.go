package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/pkg/domain"
)

func newPresenter(t *testing.T) *lectern.Presenter {
	t.Helper()
	p := lectern.New()
	err := p.Load(context.Background(), &domain.Deck{
		SubTopics: []domain.SubTopic{{ID: "intro", Name: "Introduction"}},
		Slides: map[string][]domain.Slide{
			"intro": {
				{Title: "Welcome", Layout: domain.LayoutCenter, Points: []string{"alpha", "beta"}, Narration: "Say hi"},
				{Title: "Goodbye", Layout: domain.LayoutCenter},
			},
		},
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return p
}

func run(t *testing.T, p *lectern.Presenter, input string, opts ...Option) string {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]Option{WithInput(strings.NewReader(input)), WithOutput(out), WithHeadless(true)}, opts...)
	if err := NewRunner(opts...).Run(context.Background(), p); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func TestRunner_Run_BasicFlow(t *testing.T) {
	p := newPresenter(t)
	out := run(t, p, "next\nnext\nnext_slide\n")

	frames := strings.Split(out, "[Introduction]")
	if len(frames) != 5 {
		t.Fatalf("Expected 4 frames, got %d:\n%s", len(frames)-1, out)
	}
	if strings.Contains(frames[0], "alpha") {
		t.Errorf("First frame must hide every point:\n%s", frames[0])
	}
	if !strings.Contains(frames[1], "- alpha") || strings.Contains(frames[1], "beta") {
		t.Errorf("Second frame must reveal only alpha:\n%s", frames[1])
	}
	if !strings.Contains(out, "slide 2 / 2 | step 0 / 0") {
		t.Errorf("Expected the last slide status, got:\n%s", out)
	}
	if p.Snapshot().SlideTitle != "Goodbye" {
		t.Errorf("Expected cursor on Goodbye, got %q", p.Snapshot().SlideTitle)
	}
}

func TestRunner_EmptyLineAdvances(t *testing.T) {
	p := newPresenter(t)
	run(t, p, "\n\n\n")

	snap := p.Snapshot()
	if snap.Cursor.Index != 1 {
		t.Errorf("Expected to advance onto slide 2, got %+v", snap.Cursor)
	}
}

func TestRunner_ArrowKeyLines(t *testing.T) {
	p := newPresenter(t)
	run(t, p, "\x1b[C\n\x1b[C\n\x1b[D\n")

	snap := p.Snapshot()
	if snap.Step != 1 {
		t.Errorf("Expected step 1 after right, right, left; got %d", snap.Step)
	}
	if snap.SlideTitle != "Welcome" {
		t.Errorf("Expected to stay on Welcome, got %q", snap.SlideTitle)
	}
}

func TestRunner_ErrorsDoNotStop(t *testing.T) {
	p := newPresenter(t)
	out := run(t, p, "dance\njump nowhere\nnext\nquit\nnext\n")

	if !strings.Contains(out, "Error: unknown command") {
		t.Errorf("Expected unknown command feedback, got:\n%s", out)
	}
	if !strings.Contains(out, "Error: sub-topic not found") {
		t.Errorf("Expected jump feedback, got:\n%s", out)
	}
	if p.Snapshot().Step != 1 {
		t.Errorf("Expected exactly one step after quit, got %d", p.Snapshot().Step)
	}
}

func TestRunner_SaturatedCommandsDoNotRedraw(t *testing.T) {
	p := newPresenter(t)
	out := run(t, p, "previous\nprev_slide\n")

	if n := strings.Count(out, "[Introduction]"); n != 1 {
		t.Errorf("Expected only the initial frame, got %d", n)
	}
}

func TestRunner_NotesAndRenderer(t *testing.T) {
	p := newPresenter(t)
	out := run(t, p, "", WithNotes(true), WithRenderer(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}))

	if !strings.Contains(out, "# WELCOME") {
		t.Errorf("Expected rendered content, got:\n%s", out)
	}
	if !strings.Contains(out, "Notes: Say hi") {
		t.Errorf("Expected narration, got:\n%s", out)
	}
}

func TestRunner_RequiresDeck(t *testing.T) {
	err := NewRunner(WithInput(strings.NewReader("")), WithOutput(&bytes.Buffer{})).Run(context.Background(), lectern.New())
	if !errors.Is(err, domain.ErrNoDeck) {
		t.Errorf("Expected ErrNoDeck, got %v", err)
	}
}

func TestRunner_Canceled(t *testing.T) {
	p := newPresenter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRunner(WithInput(strings.NewReader("next\n")), WithOutput(&bytes.Buffer{})).Run(ctx, p)
	if !IsInterrupted(err) {
		t.Errorf("Expected cancellation, got %v", err)
	}
}
