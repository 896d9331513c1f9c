package ports

// RevealTarget is an element of a rendered slide that the reveal controller shows or hides.
type RevealTarget interface {
	// RevealStep is the 1-based reveal tag of the element.
	RevealStep() int
	SetHidden(hidden bool)
}

// RevealScope is the subtree the reveal controller scans on initialization.
// Targets are returned in document order.
type RevealScope interface {
	RevealTargets() []RevealTarget
}

// Control is a backward/forward button whose enabled state the controller manages.
type Control interface {
	SetEnabled(enabled bool)
}

// Indicator displays the "current / total" reveal text.
type Indicator interface {
	SetText(text string)
}

// ProgressSink receives slide progress after every render.
type ProgressSink interface {
	// SetProgress receives the fraction (index+1)/total and the "i / total" label.
	SetProgress(fraction float64, label string)
}

// ControlFunc adapts a function to Control.
type ControlFunc func(enabled bool)

func (f ControlFunc) SetEnabled(enabled bool) { f(enabled) }

// IndicatorFunc adapts a function to Indicator.
type IndicatorFunc func(text string)

func (f IndicatorFunc) SetText(text string) { f(text) }

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(fraction float64, label string)

func (f ProgressFunc) SetProgress(fraction float64, label string) { f(fraction, label) }
