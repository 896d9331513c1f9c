package loam

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/loam"
)

// ManifestID is the document holding the deck topic and sub-topic order.
const ManifestID = "deck"

// Loader adapts a Loam repository of Markdown slides to ports.DeckSource.
//
// Layout:
//
//	deck.md                 topic + sub_topics (optional)
//	hist1/01-causes.md      one slide; the body becomes the narration
//	hist1/02-estates.md
//
// Without a manifest, sub-topics are the directories in lexical order.
type Loader struct {
	Repo   *loam.TypedRepository[Metadata]
	parser *compiler.Parser
	logger *slog.Logger
}

// Option defines a functional option for configuring the Loader.
type Option func(*Loader)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[Metadata], opts ...Option) *Loader {
	l := &Loader{Repo: repo}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l.parser = compiler.NewParser(l.logger)
	return l
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric frontmatter consistent across Markdown and JSON documents.
	// The presenter never writes slides, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[Metadata](repo), opts...), nil
}

type slideDoc struct {
	id    string
	order int
	data  map[string]any
}

// Load reads every document and assembles the deck.
func (l *Loader) Load(ctx context.Context) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var manifest *Metadata
	bySubTopic := make(map[string][]slideDoc)
	var dirs []string

	for _, doc := range docs {
		id := trimExtension(doc.ID)
		meta := doc.Data

		if id == ManifestID {
			m := meta
			manifest = &m
			continue
		}

		subTopic := meta.SubTopic
		if subTopic == "" {
			dir, _, found := strings.Cut(id, "/")
			if !found {
				l.logger.Warn("Skipping slide outside a sub-topic directory", "id", id)
				continue
			}
			subTopic = dir
		}

		data := make(map[string]any, len(meta.Slide)+2)
		for k, v := range meta.Slide {
			data[k] = v
		}
		if _, ok := data["id"]; !ok {
			data["id"] = id
		}
		if body := strings.TrimSpace(doc.Content); body != "" {
			if _, ok := data["narration"]; !ok {
				data["narration"] = body
			}
		}

		if _, seen := bySubTopic[subTopic]; !seen {
			dirs = append(dirs, subTopic)
		}
		bySubTopic[subTopic] = append(bySubTopic[subTopic], slideDoc{id: id, order: meta.Order, data: data})
	}

	wire := map[string]any{}
	slides := make(map[string]any, len(bySubTopic))
	for st, list := range bySubTopic {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].order != list[j].order {
				return list[i].order < list[j].order
			}
			return list[i].id < list[j].id
		})
		raw := make([]any, len(list))
		for i, s := range list {
			raw[i] = s.data
		}
		slides[st] = raw
	}
	wire["slides"] = slides

	if manifest != nil && len(manifest.SubTopics) > 0 {
		subTopics := make([]any, len(manifest.SubTopics))
		for i, st := range manifest.SubTopics {
			subTopics[i] = st
		}
		wire["sub_topics"] = subTopics
	} else {
		sort.Strings(dirs)
		subTopics := make([]any, len(dirs))
		for i, d := range dirs {
			subTopics[i] = map[string]any{"id": d}
		}
		wire["sub_topics"] = subTopics
	}
	if manifest != nil {
		wire["topic"] = manifest.Topic
	}

	d, err := l.parser.ParseMap(wire)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Watch for all relevant files (recursive) using the doublestar pattern supported by Loam.
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	id = filepath.ToSlash(id)
	if ext := filepath.Ext(id); ext != "" {
		return strings.TrimSuffix(id, ext)
	}
	return id
}
