/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing Lectern decks.

It allows developers to define decks with a type-safe, fluent builder instead of
writing JSON or YAML documents. This is particularly useful for generated decks,
unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/aretw0/lectern/pkg/domain"
		"github.com/aretw0/lectern/pkg/dsl"
	)

	func main() {
		b := dsl.New("Photosynthesis")

		b.SubTopic("light", "Light reactions").
			Slide("Chlorophyll").
			Points("Absorbs red and blue", "Reflects green").
			Story("Leaves look green because green is the colour they refuse.")

		b.SubTopic("dark", "Calvin cycle").
			Slide("Carbon fixation").
			Layout(domain.LayoutLeft).
			Stat("6", "CO2 per glucose")

		// The resulting source can be used as a ports.DeckSource
		src, err := b.Build()
		// ... pass src to Presenter.LoadFrom(...)
	}
*/
package dsl
