package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{`  _              _                   `, "#818cf8"},
	{` | |    ___  ___| |_ ___ _ __ _ __   `, "#a78bfa"},
	{` | |   / _ \/ __| __/ _ \ '__| '_ \  `, "#c084fc"},
	{` | |__|  __/ (__| ||  __/ |  | | | | `, "#e879f9"},
	{` |_____\___|\___|\__\___|_|  |_| |_| `, "#f472b6"},
}

// PrintBanner writes the Lectern banner to w, coloured when w is a capable terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
