package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the optionsbot banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"              _   _                 _           _   ", "#34d399"},
		{"   ___  _ __ | |_(_) ___  _ __  ___| |__   ___ | |_ ", "#2dd4bf"},
		{"  / _ \\| '_ \\| __| |/ _ \\| '_ \\/ __| '_ \\ / _ \\| __|", "#22d3ee"},
		{" | (_) | |_) | |_| | (_) | | | \\__ \\ |_) | (_) | |_ ", "#38bdf8"},
		{"  \\___/| .__/ \\__|_|\\___/|_| |_|___/_.__/ \\___/ \\__|", "#60a5fa"},
		{"       |_|                                          ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Profit colors a formatted amount by its sign: green for a gain, red for a loss.
func Profit(value float64, text string) string {
	p := termenv.EnvColorProfile()
	s := termenv.String(text)
	switch {
	case value > 0:
		s = s.Foreground(p.Color("#16a34a"))
	case value < 0:
		s = s.Foreground(p.Color("#dc2626"))
	}
	return s.String()
}
