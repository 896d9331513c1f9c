// Package redis publishes presenter lifecycle events on a Redis pub/sub channel,
// so external drivers (an audio timeline, a remote clicker) can follow a session.
//
// Nothing is stored: events are fire-and-forget. Hooks only queue the event;
// a background goroutine owned by the Publisher does the network I/O, so a
// slow or unreachable server never stalls the presenter.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "lectern:events"

const (
	// DefaultBufferSize is the number of events queued before new ones are dropped.
	DefaultBufferSize = 256

	publishTimeout = 2 * time.Second
)

// Publisher sends lifecycle events to Redis.
type Publisher struct {
	client     *backend.Client
	channel    string
	logger     *slog.Logger
	bufferSize int

	queue     chan queued
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

type queued struct {
	typ  domain.EventType
	data []byte
}

type Option func(*Publisher)

// WithChannel sets the pub/sub channel.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		if channel != "" {
			p.channel = channel
		}
	}
}

// WithBufferSize sets how many events may wait for the publisher goroutine.
func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a new Redis publisher with options.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis publisher from an existing client and
// starts its publishing goroutine. Call Close to stop it.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:     client,
		channel:    DefaultChannel,
		bufferSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p.queue = make(chan queued, p.bufferSize)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.wg.Add(1)
	go p.loop()
	return p
}

// loop publishes queued events in order until Close.
func (p *Publisher) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case ev := <-p.queue:
			ctx, cancel := context.WithTimeout(p.ctx, publishTimeout)
			err := p.client.Publish(ctx, p.channel, ev.data).Err()
			cancel()
			if err != nil && p.ctx.Err() == nil {
				p.logger.Warn("Failed to publish event", "type", ev.typ, "err", err)
			}
		}
	}
}

// Channel returns the pub/sub channel name.
func (p *Publisher) Channel() string { return p.channel }

// Ping checks connectivity.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close stops the publishing goroutine and releases the client. Events still
// queued are dropped. It is safe to call more than once.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		// Closing the client unblocks a publish stuck on an unresponsive server.
		p.closeErr = p.client.Close()
		p.wg.Wait()
	})
	return p.closeErr
}

// Publish marshals event to JSON and publishes it synchronously.
func (p *Publisher) Publish(ctx context.Context, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Enqueue hands event to the publishing goroutine without blocking.
// It reports false when the event was dropped because the buffer is full,
// the publisher is closed, or the event cannot be marshaled.
func (p *Publisher) Enqueue(t domain.EventType, event any) bool {
	if p.ctx.Err() != nil {
		return false
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Failed to marshal event", "type", t, "err", err)
		return false
	}
	select {
	case p.queue <- queued{typ: t, data: data}:
		return true
	default:
		p.logger.Warn("Event buffer full, dropping event", "type", t, "buffer", p.bufferSize)
		return false
	}
}

// Hooks returns lifecycle hooks that queue every event for publishing.
// They never block and never interrupt the presenter.
func (p *Publisher) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(_ context.Context, e *domain.DeckEvent) {
			p.Enqueue(e.Type, e)
		},
		OnSlideRender: func(_ context.Context, e *domain.SlideEvent) {
			p.Enqueue(e.Type, e)
		},
		OnStepChange: func(_ context.Context, e *domain.StepEvent) {
			p.Enqueue(e.Type, e)
		},
	}
}

// Message is an event received from the channel.
type Message struct {
	domain.EventBase
	Payload json.RawMessage `json:"-"`
}

// Subscribe streams events published on the channel until ctx is done.
// Malformed payloads are skipped.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan Message, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	// Wait for the subscription to be confirmed so no event published afterwards is missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(m.Payload), &msg.EventBase); err != nil {
					p.logger.Debug("Skipping malformed event", "err", err)
					continue
				}
				msg.Payload = json.RawMessage(m.Payload)
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
