package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDeckSourceContract runs a suite of tests to verify that a DeckSource implementation
// adheres to the defined interface contract. The source must hold a valid deck.
func RunDeckSourceContract(t *testing.T, src DeckSource) {
	ctx := context.Background()

	t.Run("Load Valid Deck", func(t *testing.T) {
		deck, err := src.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		require.NotNil(t, deck)
		assert.NoError(t, deck.Validate(), "loaded deck should be presentable")
	})

	t.Run("Load Is Repeatable", func(t *testing.T) {
		first, err := src.Load(ctx)
		require.NoError(t, err)
		second, err := src.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, first.SubTopics, second.SubTopics)
		assert.Equal(t, first.SlideCount(), second.SlideCount())
	})

	t.Run("Canceled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := src.Load(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
