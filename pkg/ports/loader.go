package ports

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
)

// DeckSource defines how the presenter retrieves a deck.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type DeckSource interface {
	// Load reads and decodes the complete deck.
	// Implementations must return an error wrapping ctx.Err() if the context is done.
	Load(ctx context.Context) (*domain.Deck, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the identifier of whatever changed
	// (file path, document ID) each time the underlying deck changes.
	// Consumers treat every value as "reload required". The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
