package tui

import (
	"io"
	"os"
	"strings"

	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorTrace returns a trace renderer with the same layout as runner.PlainTrace,
// painting the state label and the cell under the head.
func ColorTrace(p termenv.Profile) runner.TraceFunc {
	stateColor := p.Color("#c084fc")
	headColor := p.Color("#fbbf24")
	return func(_ int, state string, cells []string, head int) string {
		var sb strings.Builder
		for i, c := range cells {
			sb.WriteByte(' ')
			if i == head {
				sb.WriteString(p.String(state).Foreground(stateColor).Bold().String())
				sb.WriteByte(' ')
				sb.WriteString(p.String(c).Foreground(headColor).Underline().String())
				continue
			}
			sb.WriteString(c)
		}
		return sb.String()
	}
}

// TraceFor picks ColorTrace when w is a terminal and runner.PlainTrace otherwise.
func TraceFor(w io.Writer) runner.TraceFunc {
	if !IsTerminal(w) {
		return runner.PlainTrace
	}
	return ColorTrace(termenv.NewOutput(w).ColorProfile())
}
