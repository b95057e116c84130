package http

import (
	"fmt"
	"net/http"

	"github.com/aretw0/turing/pkg/dsl"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string        `json:"error"`
	Kind  dsl.Kind      `json:"kind,omitempty"`
	Pos   *dsl.Position `json:"pos,omitempty"`
}

// ParseRequest is the body of POST /v1/parse.
type ParseRequest struct {
	Program string `json:"program"`
	Strict  bool   `json:"strict,omitempty"`
}

// ProgramView describes a compiled program.
type ProgramView struct {
	Blank      string     `json:"blank"`
	Initial    string     `json:"initial"`
	States     []string   `json:"states"`
	Symbols    []string   `json:"symbols"`
	Halting    []string   `json:"halting"`
	Rules      []dsl.Rule `json:"rules"`
	Overridden []dsl.Rule `json:"overridden,omitempty"`
	Canonical  string     `json:"canonical"`
}

func newProgramView(p *dsl.Program) ProgramView {
	return ProgramView{
		Blank:      p.Blank,
		Initial:    p.Initial,
		States:     p.States(),
		Symbols:    p.Symbols(),
		Halting:    nonNil(p.Halting()),
		Rules:      p.Effective(),
		Overridden: p.Overridden(),
		Canonical:  dsl.Format(p),
	}
}

// RunRequest is the body of POST /v1/run.
type RunRequest struct {
	Program string `json:"program"`
	Tape    string `json:"tape,omitempty"`
	Head    int    `json:"head,omitempty"`
}

// RunParams are the query parameters of POST /v1/run.
type RunParams struct {
	MaxSteps *int  `form:"max_steps,omitempty" json:"max_steps,omitempty"`
	Trace    *bool `form:"trace,omitempty" json:"trace,omitempty"`
}

// RunResult is the final configuration of a run.
type RunResult struct {
	State  string   `json:"state"`
	Cells  []string `json:"cells"`
	Head   int      `json:"head"`
	Steps  int      `json:"steps"`
	Halted bool     `json:"halted"`
	// Reason is "step_limit" when the budget ran out before the machine halted.
	Reason string   `json:"reason,omitempty"`
	Tape   string   `json:"tape"`
	Trace  []string `json:"trace,omitempty"`
}

// MachineView is a library entry without its program.
type MachineView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tape        string `json:"tape,omitempty"`
	Head        int    `json:"head,omitempty"`
	MaxSteps    int    `json:"max_steps,omitempty"`
}

// CreateSessionRequest is the body of POST /v1/sessions. Tape and Head override
// the defaults of a library machine when set.
type CreateSessionRequest struct {
	ID      string  `json:"id"`
	Machine string  `json:"machine,omitempty"`
	Program string  `json:"program,omitempty"`
	Tape    *string `json:"tape,omitempty"`
	Head    *int    `json:"head,omitempty"`
}

// StepParams are the query parameters of POST /v1/sessions/{id}/step.
type StepParams struct {
	N *int `form:"n,omitempty" json:"n,omitempty"`
}

func bindRunParams(r *http.Request) (RunParams, error) {
	var params RunParams
	if err := runtime.BindQueryParameter("form", true, false, "max_steps", r.URL.Query(), &params.MaxSteps); err != nil {
		return params, fmt.Errorf("invalid format for parameter max_steps: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "trace", r.URL.Query(), &params.Trace); err != nil {
		return params, fmt.Errorf("invalid format for parameter trace: %w", err)
	}
	return params, nil
}

func bindStepParams(r *http.Request) (StepParams, error) {
	var params StepParams
	if err := runtime.BindQueryParameter("form", true, false, "n", r.URL.Query(), &params.N); err != nil {
		return params, fmt.Errorf("invalid format for parameter n: %w", err)
	}
	return params, nil
}

func bindSessionID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
