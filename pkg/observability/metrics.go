package observability

import (
	"context"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by presenter events.
type Metrics struct {
	DecksLoaded   prometheus.Counter
	SlidesShown   *prometheus.CounterVec
	StepsRevealed *prometheus.CounterVec
	RevealRatio   prometheus.Histogram
	Sessions      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DecksLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lectern_decks_loaded_total",
			Help: "Total number of decks loaded into a presenter",
		}),
		SlidesShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lectern_slides_rendered_total",
			Help: "Total number of slide renders",
		}, []string{"sub_topic"}),
		StepsRevealed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lectern_step_changes_total",
			Help: "Total number of reveal step changes",
		}, []string{"sub_topic"}),
		RevealRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lectern_reveal_ratio",
			Help:    "Fraction of the slide revealed at each step change",
			Buckets: prometheus.LinearBuckets(0, 0.25, 5),
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lectern_sessions_open",
			Help: "Number of open presenter sessions",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.DecksLoaded, m.SlidesShown, m.StepsRevealed, m.RevealRatio, m.Sessions)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(_ context.Context, _ *domain.DeckEvent) {
			m.DecksLoaded.Inc()
		},
		OnSlideRender: func(_ context.Context, e *domain.SlideEvent) {
			m.SlidesShown.WithLabelValues(e.Cursor.SubTopicID).Inc()
		},
		OnStepChange: func(_ context.Context, e *domain.StepEvent) {
			m.StepsRevealed.WithLabelValues(e.Cursor.SubTopicID).Inc()
			// Slides with nothing to reveal count as fully shown.
			ratio := 1.0
			if e.Total > 0 {
				ratio = float64(e.Current) / float64(e.Total)
			}
			m.RevealRatio.Observe(ratio)
		},
	}
}
