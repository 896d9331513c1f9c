package lectern

import (
	_ "embed"
)

// Version is the release of the engine, taken from the VERSION file.
//
//go:embed VERSION
var Version string
