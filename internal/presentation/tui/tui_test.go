package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorTrace(t *testing.T) {
	cells := []string{"1", "+", "1"}

	t.Run("Ascii profile matches plain trace", func(t *testing.T) {
		got := tui.ColorTrace(termenv.Ascii)(0, "q0", cells, 1)
		assert.Equal(t, runner.PlainTrace(0, "q0", cells, 1), got)
		assert.Equal(t, " 1 q0 + 1", got)
	})

	t.Run("ANSI profile adds escapes around the head", func(t *testing.T) {
		got := tui.ColorTrace(termenv.ANSI)(0, "q0", cells, 1)
		assert.Contains(t, got, "\x1b[")
		assert.Contains(t, got, "q0")
		assert.True(t, strings.HasPrefix(got, " 1 "), got)
		assert.True(t, strings.HasSuffix(got, " 1"), got)
	})
}

func TestTraceFor_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, tui.IsTerminal(&buf))

	trace := tui.TraceFor(&buf)
	assert.Equal(t, " q0 1 =", trace(3, "q0", []string{"1", "="}, 0))
}

func TestReport(t *testing.T) {
	snap := &domain.Snapshot{
		Machine: "unary_add",
		State:   "q0",
		Cells:   []string{"1", "+", "1", "1", "=", "1", "1", "1"},
		Head:    4,
		Blank:   "_",
		Steps:   30,
		Halted:  true,
	}

	md := tui.Report(snap)
	assert.True(t, strings.HasPrefix(md, "# Machine halted\n"))
	assert.Contains(t, md, "| Machine | unary_add |")
	assert.Contains(t, md, "| State | `q0` |")
	assert.Contains(t, md, "| Steps | 30 |")
	assert.Contains(t, md, "| Head | 4 |")
	assert.Contains(t, md, "1 + 1 1 [q0] = 1 1 1\n")

	snap.Halted = false
	snap.Machine = ""
	md = tui.Report(snap)
	assert.True(t, strings.HasPrefix(md, "# Machine paused\n"))
	assert.NotContains(t, md, "| Machine |")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(0)
	require.NoError(t, err)

	out, err := render("# Machine halted\n\nsteps: 30\n")
	require.NoError(t, err)
	assert.Contains(t, out, "halted")
	assert.Contains(t, out, "30")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
