package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/aretw0/turing/pkg/tape"
)

// RunOptions configures a single `turing run`.
type RunOptions struct {
	Definition *domain.Definition
	// MaxSteps bounds the run; 0 runs until the machine halts.
	MaxSteps int
	Trace    bool
	// Report renders a Markdown summary instead of the final configuration line.
	Report bool
	// SessionID makes the run resumable through Sessions.
	SessionID string
	Sessions  *session.Manager
	Hooks     domain.LifecycleHooks
	Logger    *slog.Logger
}

// Run executes opts.Definition and writes the outcome to out. Without a session an
// exhausted budget is an error; with one the run pauses and can be resumed.
func Run(ctx context.Context, opts RunOptions, out io.Writer) (*domain.Snapshot, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	def := opts.Definition

	runOpts := []runner.Option{
		runner.WithLogger(opts.Logger),
		runner.WithHooks(opts.Hooks),
		runner.WithMachineID(def.Name),
	}
	if opts.Trace {
		runOpts = append(runOpts, runner.WithTrace(out, tui.TraceFor(out)))
	}

	if opts.SessionID != "" {
		return runSession(ctx, opts, runOpts, out)
	}

	prog, err := dsl.Parse(def.Program)
	if err != nil {
		return nil, err
	}
	res, runErr := runner.Run(ctx, prog.Machine(dsl.Tokenize(def.Tape), def.Head),
		append(runOpts, runner.WithMaxSteps(opts.MaxSteps))...)
	if res == nil {
		return nil, runErr
	}
	snap := session.CaptureResult(res)
	snap.Machine = def.Name
	snap.Program = def.Program

	if err := present(out, snap, opts.Report); err != nil {
		return snap, err
	}
	if errors.Is(runErr, domain.ErrStepLimit) {
		return snap, fmt.Errorf("machine did not halt: %w (use --max-steps or --session to continue)", runErr)
	}
	return snap, runErr
}

func runSession(ctx context.Context, opts RunOptions, runOpts []runner.Option, out io.Writer) (*domain.Snapshot, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("sessions are not configured")
	}
	snap, loaded, err := opts.Sessions.LoadOrStart(ctx, opts.SessionID, opts.Definition)
	if err != nil {
		return nil, err
	}
	if loaded {
		opts.Logger.Info("Session Resumed", "session_id", opts.SessionID, "steps", snap.Steps)
		printSystemMessage(out, "Resuming session '%s' at step %d.", opts.SessionID, snap.Steps)
	} else {
		opts.Logger.Info("Session Created", "session_id", opts.SessionID)
		printSystemMessage(out, "Session '%s' started.", opts.SessionID)
	}
	if snap.Halted {
		printSystemMessage(out, "Session '%s' already halted.", opts.SessionID)
		return snap, present(out, snap, opts.Report)
	}

	snap, err = opts.Sessions.Advance(ctx, opts.SessionID, opts.MaxSteps, runOpts...)
	if err != nil {
		snap, _ = opts.Sessions.Load(context.WithoutCancel(ctx), opts.SessionID)
		if snap != nil {
			printSystemMessage(out, "Interrupted at step %d; progress saved.", snap.Steps)
		}
		return snap, err
	}
	if err := present(out, snap, opts.Report); err != nil {
		return snap, err
	}
	if !snap.Halted {
		printSystemMessage(out, "Paused after %d steps. Run again with --session %s to resume.", snap.Steps, opts.SessionID)
	}
	return snap, nil
}

// present writes the final configuration, or the rendered report.
func present(out io.Writer, snap *domain.Snapshot, report bool) error {
	if report {
		render, err := tui.NewRenderer(0)
		if err != nil {
			return err
		}
		text, err := render(tui.Report(snap))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	}

	t := tape.New(snap.Cells, snap.Head, snap.Blank)
	fmt.Fprintln(out, strings.TrimPrefix(t.Render(snap.State), " "))
	if snap.Halted {
		printSystemMessage(out, "Halted in state %s after %d steps.", snap.State, snap.Steps)
	}
	return nil
}
