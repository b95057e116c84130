package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/turing/examples"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

func compile(t *testing.T, name string) *dsl.Program {
	t.Helper()
	src, err := examples.Source(name)
	require.NoError(t, err)
	prog, err := dsl.Parse(src)
	require.NoError(t, err)
	return prog
}

const forever = "EMPTY: 0\nINITIAL_STATE: s\n(s, 0): (s, 0, R)"

func TestRun_UnaryAdd(t *testing.T) {
	prog := compile(t, "unary_add")
	var trace bytes.Buffer

	res, err := Run(t.Context(), prog.Machine(dsl.Tokenize("1 + 1 1 ="), 0), WithTrace(&trace, nil))
	require.NoError(t, err)

	assert.True(t, res.Halted)
	assert.Nil(t, res.Machine)
	assert.Equal(t, "q0", res.State)
	assert.Equal(t, 30, res.Steps)
	assert.Equal(t, []string{"1", "+", "1", "1", "=", "1", "1", "1"}, res.Tape.Cells())
	assert.Equal(t, 4, res.Tape.Head())

	lines := strings.Split(strings.TrimRight(trace.String(), "\n"), "\n")
	require.Len(t, lines, 31, "one line per configuration, including the halting one")
	assert.Equal(t, " q0 1 + 1 1 =", lines[0])
	assert.Equal(t, " 0 q1 + 1 1 =", lines[1])
	assert.Equal(t, " 1 + 1 1 q0 = 1 1 1", lines[30])
}

func TestRun_CustomTrace(t *testing.T) {
	prog := compile(t, "busy_beaver_2")
	var trace bytes.Buffer
	var steps []int

	_, err := Run(t.Context(), prog.Machine([]string{"0"}, 0), WithTrace(&trace, func(step int, state string, cells []string, head int) string {
		steps = append(steps, step)
		return state
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, steps)
	assert.Equal(t, "A\nB\nA\nB\nA\nB\nH\n", trace.String())
}

func TestRun_StepLimit(t *testing.T) {
	prog := compile(t, "busy_beaver_2")

	res, err := Run(t.Context(), prog.Machine([]string{"0"}, 0), WithMaxSteps(3))
	require.ErrorIs(t, err, domain.ErrStepLimit)
	assert.False(t, res.Halted)
	assert.Equal(t, 3, res.Steps)
	require.NotNil(t, res.Machine)

	// The budget applies per run, so a second run resumes where the first stopped.
	res, err = Run(t.Context(), res.Machine, WithMaxSteps(3))
	require.NoError(t, err)
	assert.True(t, res.Halted)
	assert.Equal(t, "H", res.State)
	assert.Equal(t, 6, res.Steps)
	assert.Equal(t, []string{"1", "1", "1", "1"}, res.Tape.Cells())
	assert.Equal(t, 2, res.Tape.Head())
}

func TestRun_StepLimitAtHalt(t *testing.T) {
	prog := compile(t, "busy_beaver_2")

	res, err := Run(t.Context(), prog.Machine([]string{"0"}, 0), WithMaxSteps(6))
	require.NoError(t, err, "reaching the budget on a halting configuration is a halt")
	assert.True(t, res.Halted)
}

func TestRun_Cancellation(t *testing.T) {
	prog, err := dsl.Parse(forever)
	require.NoError(t, err)

	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		res, err := Run(ctx, prog.Machine(nil, 0))
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, res.Steps)
		assert.NotNil(t, res.Machine)
	})

	t.Run("from a hook", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		var reason string
		hooks := domain.LifecycleHooks{
			OnStep: func(_ context.Context, e *domain.StepEvent) {
				if e.Step == 5 {
					cancel()
				}
			},
			OnHalt: func(_ context.Context, e *domain.HaltEvent) {
				reason = e.Reason
			},
		}
		res, err := Run(ctx, prog.Machine(nil, 0), WithHooks(hooks))
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 5, res.Steps)
		assert.Equal(t, 6, res.Tape.Len())
		assert.Equal(t, "canceled", reason)
	})
}

func TestRun_Hooks(t *testing.T) {
	prog := compile(t, "unary_add")
	var events []*domain.StepEvent
	var halt *domain.HaltEvent

	hooks := domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) { events = append(events, e) },
		OnHalt: func(_ context.Context, e *domain.HaltEvent) { halt = e },
	}
	_, err := Run(t.Context(), prog.Machine(dsl.Tokenize("1 + 1 1 ="), 0), WithHooks(hooks), WithMachineID("add-1"))
	require.NoError(t, err)

	require.Len(t, events, 30)
	first := events[0]
	assert.Equal(t, domain.EventStep, first.Type)
	assert.Equal(t, "add-1", first.MachineID)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, "q0", first.FromState)
	assert.Equal(t, "1", first.Read)
	assert.Equal(t, "q1", first.ToState)
	assert.Equal(t, "0", first.Write)
	assert.Equal(t, "R", first.Move)
	assert.Equal(t, 1, first.Head)

	require.NotNil(t, halt)
	assert.True(t, halt.Halted)
	assert.Equal(t, "q0", halt.State)
	assert.Equal(t, 30, halt.Steps)
	assert.Equal(t, 8, halt.TapeLen)
	assert.Empty(t, halt.Reason)
}

func TestRun_Checkpoint(t *testing.T) {
	prog := compile(t, "busy_beaver_2")

	t.Run("every two steps", func(t *testing.T) {
		var at []int
		_, err := Run(t.Context(), prog.Machine([]string{"0"}, 0), WithCheckpoint(2, func(_ context.Context, steps int) error {
			at = append(at, steps)
			return nil
		}))
		require.NoError(t, err)
		assert.Equal(t, []int{2, 4, 6}, at)
	})

	t.Run("error aborts", func(t *testing.T) {
		boom := errors.New("disk full")
		res, err := Run(t.Context(), prog.Machine([]string{"0"}, 0), WithCheckpoint(1, func(context.Context, int) error {
			return boom
		}))
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, res.Steps)
		assert.NotNil(t, res.Machine)
	})
}

func TestPlainTrace(t *testing.T) {
	assert.Equal(t, " 1 q0 + 1", PlainTrace(0, "q0", []string{"1", "+", "1"}, 1))
	assert.Equal(t, " 1 0 s _", PlainTrace(4, "s", []string{"1", "0", "_"}, 2))
}
