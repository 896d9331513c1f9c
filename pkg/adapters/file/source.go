// Package file provides a deck source backed by a single JSON or YAML document.
package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// Source implements ports.DeckSource and ports.Watchable for a deck file.
type Source struct {
	path   string
	format compiler.Format
	parser *compiler.Parser
	logger *slog.Logger
}

// Option defines a functional option for configuring the Source.
type Option func(*Source)

// WithFormat overrides the format inferred from the file extension.
func WithFormat(f compiler.Format) Option {
	return func(s *Source) {
		s.format = f
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New creates a source for the deck at path. The file is read on every Load.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path, format: compiler.FormatFromPath(path)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.parser = compiler.NewParser(s.logger)
	return s
}

// Path returns the deck file path.
func (s *Source) Path() string { return s.path }

// Load reads and decodes the deck file.
func (s *Source) Load(ctx context.Context) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	d, err := s.parser.Parse(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return d, nil
}

// Watch implements ports.Watchable. The parent directory is watched so that
// editors replacing the file on save are still observed.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				s.logger.Debug("Deck file changed", "path", s.path, "op", event.Op.String())
				select {
				case ch <- s.path:
				default:
					// A reload is already pending.
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("Deck watcher error", "err", err)
			}
		}
	}()
	return ch, nil
}
