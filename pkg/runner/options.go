package runner

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// TraceFunc formats one trace line for the configuration about to be looked up.
// step is the number of transitions applied so far.
type TraceFunc func(step int, state string, cells []string, head int) string

// CheckpointFunc is called every n applied transitions while the machine is live.
// Returning an error aborts the run.
type CheckpointFunc func(ctx context.Context, steps int) error

// Option defines a functional option for configuring a run.
type Option func(*options)

type options struct {
	maxSteps   int
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	machineID  string
	trace      io.Writer
	traceFunc  TraceFunc
	every      int
	checkpoint CheckpointFunc
}

func newOptions(opts []Option) *options {
	o := &options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.traceFunc == nil {
		o.traceFunc = PlainTrace
	}
	return o
}

// WithMaxSteps bounds the number of transitions applied by this run (0 = unbounded).
func WithMaxSteps(n int) Option {
	return func(o *options) {
		o.maxSteps = n
	}
}

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHooks registers lifecycle hooks. Multiple calls are merged.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithMachineID tags emitted events with the given machine or session identifier.
func WithMachineID(id string) Option {
	return func(o *options) {
		o.machineID = id
	}
}

// WithTrace writes one line per configuration to w, formatted by fn (PlainTrace when nil).
func WithTrace(w io.Writer, fn TraceFunc) Option {
	return func(o *options) {
		o.trace = w
		o.traceFunc = fn
	}
}

// WithCheckpoint calls fn after every n-th applied transition.
func WithCheckpoint(n int, fn CheckpointFunc) Option {
	return func(o *options) {
		o.every = n
		o.checkpoint = fn
	}
}
