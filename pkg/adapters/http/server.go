package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/api"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxSteps bounds /v1/run when neither the request nor the server sets a budget.
const DefaultMaxSteps = 1_000_000

// Config wires the server to its collaborators. Library and Sessions are optional:
// the routes that need them answer 501 when they are nil.
type Config struct {
	Library  ports.MachineLibrary
	Sessions *session.Manager
	// Hooks observe every run and session step (metrics).
	Hooks domain.LifecycleHooks
	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
	// MaxSteps is the step budget of /v1/run when the request has no max_steps.
	MaxSteps int
	Logger   *slog.Logger
}

// Server implements the handlers of api/openapi.yaml.
type Server struct {
	cfg    Config
	doc    *openapi3.T
	logger *slog.Logger
}

// NewHandler creates the HTTP handler: the chi routes of the API behind request
// validation against the embedded OpenAPI document.
func NewHandler(cfg Config) (http.Handler, error) {
	doc, err := openapi3.NewLoader().LoadFromData(api.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	validate, err := validator(doc)
	if err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	s := &Server{cfg: cfg, doc: doc, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Spec)
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Post("/v1/parse", s.ParseProgram)
		r.Post("/v1/run", s.RunProgram)
		r.Get("/v1/machines", s.ListMachines)
		r.Route("/v1/sessions", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Post("/", s.CreateSession)
			r.Get("/{id}", s.withSessionID(s.GetSession))
			r.Delete("/{id}", s.withSessionID(s.DeleteSession))
			r.Post("/{id}/step", s.withSessionID(s.StepSession))
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "turing-http",
		"version":     strings.TrimSpace(turing.Version),
		"api_version": apiVersion,
	})
}

// ParseProgram handles POST /v1/parse.
func (s *Server) ParseProgram(w http.ResponseWriter, r *http.Request) {
	var body ParseRequest
	if !s.decode(w, r, &body) {
		return
	}
	var opts []dsl.Option
	if body.Strict {
		opts = append(opts, dsl.WithStrict())
	}
	prog, err := dsl.Parse(body.Program, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProgramView(prog))
}

// RunProgram handles POST /v1/run.
func (s *Server) RunProgram(w http.ResponseWriter, r *http.Request) {
	params, err := bindRunParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var body RunRequest
	if !s.decode(w, r, &body) {
		return
	}
	prog, err := dsl.Parse(body.Program)
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := s.cfg.MaxSteps
	if params.MaxSteps != nil && *params.MaxSteps > 0 {
		limit = *params.MaxSteps
	}
	opts := []runner.Option{
		runner.WithMaxSteps(limit),
		runner.WithLogger(s.logger),
		runner.WithHooks(s.cfg.Hooks),
	}
	var trace bytes.Buffer
	if params.Trace != nil && *params.Trace {
		opts = append(opts, runner.WithTrace(&trace, runner.PlainTrace))
	}

	res, err := turing.Run(r.Context(), prog, dsl.Tokenize(body.Tape), body.Head, opts...)
	if err != nil && !errors.Is(err, domain.ErrStepLimit) {
		s.writeError(w, err)
		return
	}

	out := RunResult{
		State:  res.State,
		Cells:  res.Tape.Cells(),
		Head:   res.Tape.Head(),
		Steps:  res.Steps,
		Halted: res.Halted,
		Tape:   strings.TrimPrefix(res.Tape.Render(res.State), " "),
	}
	if err != nil {
		out.Reason = "step_limit"
	}
	if trace.Len() > 0 {
		out.Trace = strings.Split(strings.TrimSuffix(trace.String(), "\n"), "\n")
	}
	writeJSON(w, http.StatusOK, out)
}

// ListMachines handles GET /v1/machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Library == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "no machine library configured"})
		return
	}
	names, err := s.cfg.Library.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]MachineView, 0, len(names))
	for _, name := range names {
		def, err := s.cfg.Library.Get(r.Context(), name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, MachineView{
			Name:        def.Name,
			Description: def.Description,
			Tape:        def.Tape,
			Head:        def.Head,
			MaxSteps:    def.MaxSteps,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListSessions handles GET /v1/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}
	ids, err := s.cfg.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	if !s.requireSessions(w) {
		return
	}
	var body CreateSessionRequest
	if !s.decode(w, r, &body) {
		return
	}

	def, err := s.definition(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.cfg.Sessions.Start(r.Context(), body.ID, def)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session created", "session_id", body.ID, "machine", def.Name)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) definition(ctx context.Context, body CreateSessionRequest) (*domain.Definition, error) {
	if body.Machine == "" {
		if body.Program == "" {
			return nil, errBadRequest("either machine or program is required")
		}
		def := &domain.Definition{Program: body.Program}
		if body.Tape != nil {
			def.Tape = *body.Tape
		}
		if body.Head != nil {
			def.Head = *body.Head
		}
		return def, nil
	}
	if s.cfg.Library == nil {
		return nil, errBadRequest("no machine library configured")
	}
	def, err := s.cfg.Library.Get(ctx, body.Machine)
	if err != nil {
		return nil, err
	}
	if body.Tape != nil {
		def.Tape = *body.Tape
	}
	if body.Head != nil {
		def.Head = *body.Head
	}
	return def, nil
}

// GetSession handles GET /v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := s.cfg.Sessions.Load(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := s.cfg.Sessions.Load(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cfg.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepSession handles POST /v1/sessions/{id}/step.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request, id string) {
	params, err := bindStepParams(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	n := 1
	if params.N != nil {
		n = *params.N
	}
	if n <= 0 {
		n = s.cfg.MaxSteps
	}
	snap, err := s.cfg.Sessions.Advance(r.Context(), id, n, runner.WithHooks(s.cfg.Hooks))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// -- Helpers --

func (s *Server) withSessionID(h func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.requireSessions(w) {
			return
		}
		id, err := bindSessionID(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		h(w, r, id)
	}
}

func (s *Server) requireSessions(w http.ResponseWriter) bool {
	if s.cfg.Sessions == nil {
		writeJSON(w, http.StatusNotImplemented, ErrorResponse{Error: "sessions are not enabled"})
		return false
	}
	return true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequestError(msg) }

// writeError maps domain and parse errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var perr *dsl.ParseError
	var bad badRequestError
	switch {
	case errors.As(err, &perr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: perr.Error(), Kind: perr.Kind, Pos: &perr.Pos})
		return
	case errors.As(err, &bad):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrMachineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionExists), errors.Is(err, domain.ErrSessionHalted):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidSessionID):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
