package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Parley banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___           _           ", "#818cf8"},
		{" | _ \\__ _ _ _ | |___ _  _  ", "#a78bfa"},
		{" |  _/ _` | '_|| / -_) || | ", "#c084fc"},
		{" |_| \\__,_|_|  |_\\___|\\_, | ", "#e879f9"},
		{"                      |__/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}

// Status colors a validation verdict: green for ok, red otherwise.
func Status(ok bool, text string) string {
	p := termenv.ColorProfile()
	color := "#22c55e"
	if !ok {
		color = "#ef4444"
	}
	return termenv.String(text).Foreground(p.Color(color)).String()
}
