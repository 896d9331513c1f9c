// Package tui is the interactive terminal presenter.
//
// Key presses are translated through domain.KeyBindings into the same commands
// every other front-end dispatches, so the terminal is just one more input source.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/presentation/markdown"
	"github.com/aretw0/lectern/pkg/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c084fc"))
	topicStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#818cf8"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f472b6"))
	footerStyle = lipgloss.NewStyle().Faint(true)
	notesStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#a78bfa")).
			BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).PaddingLeft(1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb7185"))
)

const hints = "←/→ reveal · pgup/pgdn slide · tab topic · home reset · enter advance · t notes · q quit"

// Model is the bubbletea model of the terminal presenter.
type Model struct {
	ctx       context.Context
	presenter *lectern.Presenter
	render    func(string) (string, error)

	width     int
	showNotes bool
	err       error
}

// Option configures the Model.
type Option func(*Model)

// WithRenderer sets the markdown renderer of the slide body.
func WithRenderer(r func(string) (string, error)) Option {
	return func(m *Model) {
		m.render = r
	}
}

// WithNotes shows the narration panel from the start.
func WithNotes(show bool) Option {
	return func(m *Model) {
		m.showNotes = show
	}
}

// WithWidth sets the initial width, before the first window size message.
func WithWidth(w int) Option {
	return func(m *Model) {
		m.width = w
	}
}

// NewModel creates a model driving p. Commands are dispatched with ctx.
func NewModel(ctx context.Context, p *lectern.Presenter, opts ...Option) Model {
	m := Model{ctx: ctx, presenter: p, width: DefaultWidth}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "t":
			m.showNotes = !m.showNotes
			return m, nil
		}

		cmd, ok := domain.LookupKey(key)
		if !ok {
			return m, nil
		}
		m.err = m.presenter.Dispatch(m.ctx, cmd)
	}
	return m, nil
}

func (m Model) View() string {
	snap := m.presenter.Snapshot()
	if !snap.Loaded {
		return "No deck loaded.\n"
	}

	body := markdown.Render(m.presenter.View())
	if m.render != nil {
		if out, err := m.render(body); err == nil {
			body = out
		}
	}

	var b strings.Builder
	b.WriteString(m.header(snap))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\n")

	if m.showNotes {
		if s, ok := m.presenter.Slide(); ok && s.Narration != "" {
			b.WriteString(notesStyle.Width(max(m.width-4, 10)).Render(s.Narration))
			b.WriteString("\n\n")
		}
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("step %s  %s", snap.Indicator, hints)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) header(snap domain.Snapshot) string {
	title := headerStyle.Render(snap.Topic)
	if snap.Topic == "" {
		title = headerStyle.Render("Lectern")
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		title, "  ",
		topicStyle.Render(snap.SubTopic), "  ",
		fmt.Sprintf("[%s]", snap.Progress.Label()),
	)
	return line + "\n" + barStyle.Render(ProgressBar(snap.Progress, max(m.width/2, 10)))
}

// ProgressBar draws a width-cell bar filled to p.Fraction().
func ProgressBar(p domain.Progress, width int) string {
	filled := int(math.Round(p.Fraction() * float64(width)))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Run starts the interactive presenter on the alternate screen and blocks until quit.
func Run(ctx context.Context, p *lectern.Presenter, opts ...Option) error {
	prog := tea.NewProgram(NewModel(ctx, p, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
