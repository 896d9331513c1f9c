package domain_test

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestComposeHooks(t *testing.T) {
	var calls []string

	first := domain.LifecycleHooks{
		OnStepChange: func(_ context.Context, e *domain.StepEvent) { calls = append(calls, "first") },
	}
	second := domain.LifecycleHooks{
		OnStepChange: func(_ context.Context, e *domain.StepEvent) { calls = append(calls, "second") },
		OnLoad:       func(_ context.Context, e *domain.DeckEvent) { calls = append(calls, "load") },
	}

	hooks := domain.ComposeHooks(first, domain.LifecycleHooks{}, second)
	hooks.OnStepChange(context.Background(), &domain.StepEvent{})
	hooks.OnLoad(context.Background(), &domain.DeckEvent{})

	assert.Equal(t, []string{"first", "second", "load"}, calls)
	assert.Nil(t, hooks.OnSlideRender)
}
