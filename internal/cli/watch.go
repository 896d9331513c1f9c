package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// settleDelay lets editors finish writing before the deck is read again.
var settleDelay = 100 * time.Millisecond

// ReloadFunc receives a freshly decoded deck and the identifier of what changed.
type ReloadFunc func(ctx context.Context, changed string, d *domain.Deck) error

// Watch reloads src on every change until ctx is done. Sources that cannot be
// watched return immediately. A deck that fails to decode or to reload is
// logged and the previous one stays on screen until the next change.
func Watch(ctx context.Context, src ports.DeckSource, logger *slog.Logger, reload ReloadFunc) error {
	w, ok := src.(ports.Watchable)
	if !ok {
		logger.Debug("Deck source is not watchable")
		return nil
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("Starting Watcher")

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("Change detected, triggering reload", "event", changed)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(settleDelay):
			}
			drain(changes)

			d, err := src.Load(ctx)
			if err != nil {
				logger.Error("Deck reload failed", "err", err)
				continue
			}
			if err := reload(ctx, changed, d); err != nil {
				logger.Error("Deck rejected", "err", err)
			}
		}
	}
}

// drain discards notifications queued while the deck settled.
func drain(ch <-chan string) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
