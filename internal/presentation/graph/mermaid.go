package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/dsl"
)

// Overlay contains run state to highlight on the diagram.
type Overlay struct {
	VisitedStates []string
	CurrentState  string
}

// GenerateMermaid produces a Mermaid stateDiagram-v2 of the program's effective table.
// Rules sharing a source and target state collapse into one edge whose label lists
// every "read/write,dir" triple. States without outgoing rules are styled as halting
// and linked to the final marker.
func GenerateMermaid(prog *dsl.Program, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	sb.WriteString(fmt.Sprintf("    [*] --> %s\n", sanitizeMermaidID(prog.Initial)))

	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, r := range prog.Effective() {
		e := edge{r.From.State, r.To.State}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], transitionLabel(r))
	}
	for _, e := range order {
		sb.WriteString(fmt.Sprintf("    %s --> %s : %s\n",
			sanitizeMermaidID(e.from), sanitizeMermaidID(e.to), strings.Join(labels[e], "<br/>")))
	}

	halting := prog.Halting()
	for _, s := range halting {
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", sanitizeMermaidID(s)))
	}

	if len(halting) > 0 {
		sb.WriteString("\n    classDef halting fill:#fce4ec,stroke:#ad1457,stroke-width:2px,color:#000\n")
		for _, s := range halting {
			sb.WriteString(fmt.Sprintf("    class %s halting\n", sanitizeMermaidID(s)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		visited := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			id := sanitizeMermaidID(s)
			if id == "" || visited[id] || s == overlay.CurrentState {
				continue
			}
			visited[id] = true
			sb.WriteString(fmt.Sprintf("    class %s visited\n", id))
		}
		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current\n", sanitizeMermaidID(overlay.CurrentState)))
		}
	}

	return sb.String()
}

func transitionLabel(r dsl.Rule) string {
	return escapeLabel(dsl.QuoteSymbol(r.From.Symbol)) + "/" +
		escapeLabel(dsl.QuoteSymbol(r.To.Symbol)) + "," + r.To.Move.String()
}

// escapeLabel rewrites characters Mermaid treats as syntax into entity codes.
func escapeLabel(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '#':
			sb.WriteString("#35;")
		case ';':
			sb.WriteString("#59;")
		case '"':
			sb.WriteString("#quot;")
		case '<':
			sb.WriteString("#lt;")
		case '>':
			sb.WriteString("#gt;")
		case '\n':
			sb.WriteString(" ")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// sanitizeMermaidID keeps state names usable as Mermaid identifiers. DSL states are
// already identifiers; "end" and "state" are keywords in stateDiagram.
func sanitizeMermaidID(id string) string {
	switch strings.ToLower(id) {
	case "end", "state":
		return "s_" + id
	}
	return id
}
