package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDeckLoad    EventType = "deck_load"
	EventSlideRender EventType = "slide_render"
	EventStepChange  EventType = "step_change"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// DeckEvent is emitted after a deck has been accepted.
type DeckEvent struct {
	EventBase
	Topic     string `json:"topic,omitempty"`
	SubTopics int    `json:"sub_topics"`
	Slides    int    `json:"slides"`
}

// SlideEvent is emitted every time a slide is rendered into the container.
type SlideEvent struct {
	EventBase
	Cursor   Cursor   `json:"cursor"`
	Title    string   `json:"title,omitempty"`
	Progress Progress `json:"progress"`
}

// StepEvent is emitted after reveal initialization and every reveal transition.
type StepEvent struct {
	EventBase
	Cursor  Cursor `json:"cursor"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

// LifecycleHooks defines callbacks for presenter observability.
//
// On load, OnLoad fires first, then OnSlideRender and OnStepChange for the
// first slide. Hooks run synchronously inside the presenter call and must not block.
type LifecycleHooks struct {
	OnLoad        func(context.Context, *DeckEvent)
	OnSlideRender func(context.Context, *SlideEvent)
	OnStepChange  func(context.Context, *StepEvent)
}

// ComposeHooks fans each callback out to every non-nil hook, in order.
func ComposeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hooks {
		h := h
		if h.OnLoad != nil {
			prev := out.OnLoad
			out.OnLoad = func(ctx context.Context, e *DeckEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnLoad(ctx, e)
			}
		}
		if h.OnSlideRender != nil {
			prev := out.OnSlideRender
			out.OnSlideRender = func(ctx context.Context, e *SlideEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnSlideRender(ctx, e)
			}
		}
		if h.OnStepChange != nil {
			prev := out.OnStepChange
			out.OnStepChange = func(ctx context.Context, e *StepEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnStepChange(ctx, e)
			}
		}
	}
	return out
}
