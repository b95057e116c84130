package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep EventType = "step"
	EventHalt EventType = "halt"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	MachineID string    `json:"machine_id,omitempty"`
}

// StepEvent describes one applied transition.
// States and symbols are carried in their display form so hooks stay non-generic.
type StepEvent struct {
	EventBase
	Step      int    `json:"step"`
	FromState string `json:"from_state"`
	Read      string `json:"read"`
	ToState   string `json:"to_state"`
	Write     string `json:"write"`
	Move      string `json:"move"`
	Head      int    `json:"head"`
}

// HaltEvent describes the end of a run: either a real halt or an interrupted run.
type HaltEvent struct {
	EventBase
	State   string `json:"state"`
	Steps   int    `json:"steps"`
	Halted  bool   `json:"halted"`
	TapeLen int    `json:"tape_len"`
	Reason  string `json:"reason,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStep func(context.Context, *StepEvent)
	OnHalt func(context.Context, *HaltEvent)
}

// Merge combines two hook sets; both callbacks run, receiver first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep: chain(h.OnStep, other.OnStep),
		OnHalt: chain(h.OnHalt, other.OnHalt),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
