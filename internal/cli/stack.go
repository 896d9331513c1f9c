package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/config"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/session"
)

// Stack holds the collaborators shared by every command.
type Stack struct {
	Config    config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Metrics   *observability.Metrics
	Publisher *redis.Publisher // nil unless a Redis address is configured
}

// NewStack builds the stack for cfg. Debug forces debug logging and logs
// every presenter event.
func NewStack(cfg config.Config, debug bool) *Stack {
	logger := cfg.Logger()
	if debug {
		format, _ := logging.ParseFormat(cfg.LogFormat)
		logger = logging.New(slog.LevelDebug, format)
	}

	reg := prometheus.NewRegistry()
	s := &Stack{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  observability.NewMetrics(reg),
	}
	if cfg.Redis.Addr != "" {
		s.Publisher = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithChannel(cfg.Redis.Channel),
			redis.WithLogger(logger),
		)
	}
	return s
}

// Hooks composes debug logging, metrics and the event publisher.
func (s *Stack) Hooks() domain.LifecycleHooks {
	hooks := []domain.LifecycleHooks{DebugHooks(s.Logger), s.Metrics.Hooks()}
	if s.Publisher != nil {
		hooks = append(hooks, s.Publisher.Hooks())
	}
	return domain.ComposeHooks(hooks...)
}

// PresenterOptions returns the options every presenter of the process is built with.
func (s *Stack) PresenterOptions(id string) []lectern.Option {
	return []lectern.Option{
		lectern.WithID(id),
		lectern.WithLogger(s.Logger),
		lectern.WithImagesRoot(s.Config.ImagesRoot),
		lectern.WithImageExt(s.Config.ImageExt),
		lectern.WithLifecycleHooks(s.Hooks()),
	}
}

// NewPresenter creates a presenter wired to the stack.
func (s *Stack) NewPresenter(id string, extra ...lectern.Option) *lectern.Presenter {
	return lectern.New(append(s.PresenterOptions(id), extra...)...)
}

// Sessions creates a session manager whose presenters are wired to the stack.
func (s *Stack) Sessions() *session.Manager {
	return session.NewManager(func(id string) *lectern.Presenter {
		return s.NewPresenter(id)
	}, session.WithLogger(s.Logger))
}

// Ping checks the optional backends.
func (s *Stack) Ping(ctx context.Context) error {
	if s.Publisher == nil {
		return nil
	}
	return s.Publisher.Ping(ctx)
}

// Close releases the backends.
func (s *Stack) Close() error {
	if s.Publisher == nil {
		return nil
	}
	return s.Publisher.Close()
}

// DebugHooks logs every presenter event at debug level.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.DeckEvent) {
			logger.Debug("Deck Loaded", "session_id", e.SessionID, "topic", e.Topic, "sub_topics", e.SubTopics, "slides", e.Slides)
		},
		OnSlideRender: func(ctx context.Context, e *domain.SlideEvent) {
			logger.Debug("Slide Rendered", "session_id", e.SessionID, "sub_topic", e.Cursor.SubTopicID, "index", e.Cursor.Index)
		},
		OnStepChange: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("Step Changed", "session_id", e.SessionID, "step", e.Current, "total", e.Total)
		},
	}
}
