package runner

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

// PlainTrace renders a configuration the way tape.Render does: every cell preceded
// by a space, with the state written before the cell under the head.
func PlainTrace(_ int, state string, cells []string, head int) string {
	var sb strings.Builder
	for i, c := range cells {
		sb.WriteByte(' ')
		if i == head {
			sb.WriteString(state)
			sb.WriteByte(' ')
		}
		sb.WriteString(c)
	}
	return sb.String()
}

// NotifyContext returns a context cancelled on SIGINT (Ctrl+C) or SIGTERM, so a
// long run can be interrupted and still report where it stopped.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
