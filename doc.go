/*
Package lectern is a progressive step-reveal presentation engine for lesson decks.

A deck groups slides into ordered sub-topics. Lectern renders one slide at a time
into a visual tree and drives a deterministic reveal state machine over it: every
bullet point and content block is a reveal target, shown one step at a time.

# Concept

The Presenter owns the loaded deck, a cursor into it and the rendered slide. All
input (key presses, button clicks, text commands, HTTP requests, MCP tool calls)
is translated into a domain.Command and applied through a single synchronous
Dispatch. Rendering a slide always re-initializes the reveal state to step 0.

# Key Features

  - Deterministic Rendering: The same slide always yields the same tree.
  - Hexagonal Architecture: Deck sources and UI handles are injected through ports.
  - Region Routing: Split layouts send text blocks left and visual blocks right.
  - Lifecycle Hooks: Deck loads, slide renders and reveal steps can be observed.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/lectern"
		"github.com/aretw0/lectern/pkg/adapters/file"
		"github.com/aretw0/lectern/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		p := lectern.New(lectern.WithOnStepChange(func(cur, total int) {
			fmt.Printf("step %d / %d\n", cur, total)
		}))

		if err := p.LoadFrom(ctx, file.New("lesson.json")); err != nil {
			log.Fatal(err)
		}

		for _, cmd := range []domain.Command{{Type: domain.CmdNext}, {Type: domain.CmdNextSlide}} {
			if err := p.Dispatch(ctx, cmd); err != nil {
				log.Fatal(err)
			}
		}
	}
*/
package lectern
