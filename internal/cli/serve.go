package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/aretw0/lectern/pkg/adapters/http"
	"github.com/aretw0/lectern/pkg/adapters/mcp"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/session"
)

// DefaultSessionID names the session preloaded from --deck.
const DefaultSessionID = "default"

const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr string
	// DeckPath optionally preloads DefaultSessionID and hot-reloads it.
	DeckPath string
}

// Serve runs the HTTP API until ctx is done, alongside the deck watcher.
func Serve(ctx context.Context, stack *Stack, opts ServeOptions) error {
	if err := stack.Ping(ctx); err != nil {
		stack.Logger.Warn("Event publisher unreachable", "addr", stack.Config.Redis.Addr, "err", err)
	}

	srv, err := httpadapter.NewServer(ctx, stack.Sessions(),
		httpadapter.WithLogger(stack.Logger),
		httpadapter.WithGatherer(stack.Registry),
		httpadapter.WithMetrics(stack.Metrics),
	)
	if err != nil {
		return fmt.Errorf("invalid api document: %w", err)
	}

	var src ports.DeckSource
	if opts.DeckPath != "" {
		if src, err = OpenSource(opts.DeckPath, stack.Logger); err != nil {
			return err
		}
		d, err := src.Load(ctx)
		if err != nil {
			return err
		}
		if _, err := srv.Open(ctx, DefaultSessionID, d); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: srv.Handler(),
		// Streams end when the server stops.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		stack.Logger.Info("Starting Lectern Server", "addr", opts.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			httpServer.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		stack.Logger.Info("Lectern Server stopped gracefully")
		return nil
	})
	if src != nil {
		g.Go(func() error {
			err := Watch(gctx, src, stack.Logger, func(ctx context.Context, changed string, d *domain.Deck) error {
				return srv.Reload(ctx, DefaultSessionID, changed, d)
			})
			if err != nil {
				// Serving without hot reload is still useful.
				stack.Logger.Warn("Deck watcher stopped", "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Transport string // stdio or sse
	Port      int
	DeckPath  string
}

// ServeMCP runs the MCP server on the selected transport.
func ServeMCP(ctx context.Context, stack *Stack, opts MCPOptions) error {
	mgr := stack.Sessions()
	if opts.DeckPath != "" {
		if err := preload(ctx, stack, mgr, opts.DeckPath); err != nil {
			return err
		}
	}
	srv := mcp.NewServer(mgr, mcp.WithLogger(stack.Logger))

	switch opts.Transport {
	case "", "stdio":
		stack.Logger.Info("Starting Lectern MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		stack.Logger.Info("Starting Lectern MCP Server (SSE)", "port", opts.Port)
		return srv.ServeSSE(ctx, opts.Port)
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", opts.Transport)
	}
}

func preload(ctx context.Context, stack *Stack, mgr *session.Manager, path string) error {
	d, err := LoadDeck(ctx, path, stack.Logger)
	if err != nil {
		return err
	}
	_, err = mgr.Open(ctx, DefaultSessionID, d)
	return err
}
