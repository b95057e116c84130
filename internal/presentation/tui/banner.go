package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner shown by the interactive commands.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	lines := []struct{ text, color string }{
		{"  _             _             ", "#818cf8"},
		{" | |_ _   _ _ __(_)_ __   __ _ ", "#a78bfa"},
		{" | __| | | | '__| | '_ \\ / _` |", "#c084fc"},
		{" | |_| |_| | |  | | | | | (_| |", "#e879f9"},
		{"  \\__|\\__,_|_|  |_|_| |_|\\__, |", "#f472b6"},
		{"                         |___/ ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
