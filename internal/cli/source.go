package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lectern/pkg/adapters/file"
	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// OpenSource picks the deck source for path: a Loam repository for a
// directory of slide documents, a single JSON/YAML document otherwise.
func OpenSource(path string, logger *slog.Logger) (ports.DeckSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("deck not found: %w", err)
	}
	if info.IsDir() {
		return loam.Open(path, loam.WithLogger(logger))
	}
	return file.New(path, file.WithLogger(logger)), nil
}

// LoadDeck opens path and decodes the deck, without validating it.
func LoadDeck(ctx context.Context, path string, logger *slog.Logger) (*domain.Deck, error) {
	src, err := OpenSource(path, logger)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}
