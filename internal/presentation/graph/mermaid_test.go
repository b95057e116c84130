package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/dsl"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Busy Beaver",
			src: "EMPTY: 0\nINITIAL_STATE: A\n" +
				"(A, 0): (B, 1, R)\n(A, 1): (B, 1, L)\n(B, 0): (A, 1, L)\n(B, 1): (H, 1, R)\n",
			contains: []string{
				"stateDiagram-v2\n",
				"[*] --> A\n",
				"A --> B : 0/1,R<br/>1/1,L\n",
				"B --> A : 0/1,L\n",
				"B --> H : 1/1,R\n",
				"H --> [*]\n",
				"class H halting\n",
			},
			excludes: []string{"Overlay Styles"},
		},
		{
			name: "Self Loop",
			src:  "EMPTY: _\nINITIAL_STATE: q0\n(q0, 1): (q0, 1, R)\n",
			contains: []string{
				"q0 --> q0 : 1/1,R\n",
			},
			excludes: []string{"q0 --> [*]", "classDef halting"},
		},
		{
			name: "Label Escaping",
			src: "EMPTY: \" \"\nINITIAL_STATE: q0\n(q0, #): (q1, ;, L)\n" +
				`(q1, "a\"b"): (q1, x, R)` + "\n",
			contains: []string{
				"q0 --> q1 : #35;/#59;,L\n",
				"q1 --> q1 : #quot;a\\#quot;b#quot;/x,R\n",
			},
		},
		{
			name: "Keyword States",
			src:  "EMPTY: _\nINITIAL_STATE: start\n(start, _): (end, _, R)\n",
			contains: []string{
				"[*] --> start\n",
				"start --> s_end : _/_,R\n",
				"class s_end halting\n",
			},
		},
		{
			name: "Overlay",
			src: "EMPTY: 0\nINITIAL_STATE: A\n" +
				"(A, 0): (B, 1, R)\n(B, 0): (A, 1, L)\n(B, 1): (H, 1, R)\n",
			overlay: &graph.Overlay{VisitedStates: []string{"A", "B", "A", "B"}, CurrentState: "B"},
			contains: []string{
				"classDef visited",
				"classDef current",
				"class A visited\n",
				"class B current\n",
			},
			excludes: []string{"class B visited"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := dsl.Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := graph.GenerateMermaid(prog, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
			if strings.Count(got, "A visited") > 1 {
				t.Errorf("visited states should be deduplicated:\n%v", got)
			}
		})
	}
}
