package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/lectern/internal/compiler"
	"github.com/aretw0/lectern/pkg/domain"
)

// Source implements ports.DeckSource and ports.Watchable over an in-memory deck.
// Safe for concurrent use.
type Source struct {
	mu       sync.RWMutex
	deck     *domain.Deck
	watchers []chan string
}

// New creates a source holding d.
func New(d *domain.Deck) *Source {
	return &Source{deck: d}
}

// NewFromDocument decodes a deck document (the parsed JSON/YAML wire form).
// This improves DX for tests and embedded scenarios.
func NewFromDocument(doc map[string]any) (*Source, error) {
	d, err := compiler.NewParser(nil).ParseMap(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode deck: %w", err)
	}
	return New(d), nil
}

// Load returns the held deck.
func (s *Source) Load(ctx context.Context) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deck == nil {
		return nil, domain.ErrNoDeck
	}
	return s.deck, nil
}

// Set replaces the held deck and signals every watcher.
func (s *Source) Set(d *domain.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deck = d
	for _, ch := range s.watchers {
		select {
		case ch <- "memory":
		default:
			// A reload is already pending for this watcher.
		}
	}
}

// Watch returns a channel signaled after every Set, closed when ctx is done.
func (s *Source) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 1)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
