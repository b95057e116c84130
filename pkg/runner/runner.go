package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/tape"
)

// Result describes where a run ended.
type Result[S, D comparable] struct {
	// State is the state the machine was in when the run ended.
	State S
	// Tape is the final tape. When the run did not halt it is the live tape of Machine.
	Tape *tape.Tape[D]
	// Steps is the total number of transitions applied by the machine, across runs.
	Steps int
	// Halted reports whether the machine reached a configuration without a rule.
	Halted bool
	// Machine is the still-live machine when the run ended early, nil once halted.
	Machine *machine.Machine[S, D]
}

// Run steps m until it halts, ctx is done, or the step budget is exhausted.
// On early termination it returns ctx.Err() or domain.ErrStepLimit together with
// a non-halted Result.
func Run[S, D comparable](ctx context.Context, m *machine.Machine[S, D], opts ...Option) (*Result[S, D], error) {
	o := newOptions(opts)
	start := m.Steps()
	o.logger.Debug("run started", "machine_id", o.machineID, "state", m.State(), "steps", start)

	for {
		if err := ctx.Err(); err != nil {
			return interrupted(ctx, o, m, "canceled"), err
		}

		if o.trace != nil {
			fmt.Fprintln(o.trace, o.traceFunc(m.Steps(), fmt.Sprint(m.State()), display(m.Tape().Cells()), m.Tape().Head()))
		}

		if o.maxSteps > 0 && m.Steps()-start >= o.maxSteps {
			if _, ok := m.Next(); ok {
				o.logger.Debug("step limit reached", "machine_id", o.machineID, "limit", o.maxSteps)
				return interrupted(ctx, o, m, "step_limit"), fmt.Errorf("after %d steps: %w", o.maxSteps, domain.ErrStepLimit)
			}
		}

		from := m.Config()
		to, _ := m.Next()
		switch out := m.Step().(type) {
		case *machine.Stopped[S, D]:
			o.logger.Debug("machine halted", "machine_id", o.machineID, "state", out.State, "steps", out.Steps)
			o.emitHalt(ctx, fmt.Sprint(out.State), out.Steps, true, out.Tape.Len(), "")
			return &Result[S, D]{State: out.State, Tape: out.Tape, Steps: out.Steps, Halted: true}, nil

		case *machine.Running[S, D]:
			emitStep(ctx, o, from, to, out.Machine)
			steps := out.Machine.Steps()
			if o.checkpoint != nil && o.every > 0 && steps%o.every == 0 {
				if err := o.checkpoint(ctx, steps); err != nil {
					return interrupted(ctx, o, m, "checkpoint"), fmt.Errorf("checkpoint at step %d: %w", steps, err)
				}
			}
		}
	}
}

func interrupted[S, D comparable](ctx context.Context, o *options, m *machine.Machine[S, D], reason string) *Result[S, D] {
	o.emitHalt(ctx, fmt.Sprint(m.State()), m.Steps(), false, m.Tape().Len(), reason)
	return &Result[S, D]{State: m.State(), Tape: m.Tape(), Steps: m.Steps(), Machine: m}
}

func emitStep[S, D comparable](ctx context.Context, o *options, from domain.Configuration[S, D], to domain.Transition[S, D], m *machine.Machine[S, D]) {
	if o.hooks.OnStep == nil {
		return
	}
	o.hooks.OnStep(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep, MachineID: o.machineID},
		Step:      m.Steps(),
		FromState: fmt.Sprint(from.State),
		Read:      fmt.Sprint(from.Symbol),
		ToState:   fmt.Sprint(to.State),
		Write:     fmt.Sprint(to.Symbol),
		Move:      to.Move.String(),
		Head:      m.Tape().Head(),
	})
}

func (o *options) emitHalt(ctx context.Context, state string, steps int, halted bool, tapeLen int, reason string) {
	if o.hooks.OnHalt == nil {
		return
	}
	o.hooks.OnHalt(ctx, &domain.HaltEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventHalt, MachineID: o.machineID},
		State:     state,
		Steps:     steps,
		Halted:    halted,
		TapeLen:   tapeLen,
		Reason:    reason,
	})
}

func display[D any](cells []D) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}
