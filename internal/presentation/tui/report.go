package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// Report renders a snapshot as a Markdown summary: status, position and tape.
func Report(snap *domain.Snapshot) string {
	var sb strings.Builder
	if snap.Halted {
		sb.WriteString("# Machine halted\n\n")
	} else {
		sb.WriteString("# Machine paused\n\n")
	}

	sb.WriteString("| Field | Value |\n|---|---|\n")
	if snap.Machine != "" {
		fmt.Fprintf(&sb, "| Machine | %s |\n", escapeCell(snap.Machine))
	}
	fmt.Fprintf(&sb, "| State | `%s` |\n", snap.State)
	fmt.Fprintf(&sb, "| Steps | %d |\n", snap.Steps)
	fmt.Fprintf(&sb, "| Head | %d |\n", snap.Head)
	fmt.Fprintf(&sb, "| Cells | %d |\n", len(snap.Cells))
	fmt.Fprintf(&sb, "| Blank | `%s` |\n", escapeCell(snap.Blank))

	t := tape.New(snap.Cells, snap.Head, snap.Blank)
	sb.WriteString("\n## Tape\n\n```\n")
	sb.WriteString(strings.TrimPrefix(t.Render("["+snap.State+"]"), " "))
	sb.WriteString("\n```\n")
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
