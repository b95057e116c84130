package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MachinesURI is the resource listing the library.
const MachinesURI = "turing://machines"

// DefaultMaxSteps bounds run_machine when the call sets no budget.
const DefaultMaxSteps = 1_000_000

// ParseArgs are the arguments of parse_program.
type ParseArgs struct {
	Program string `json:"program"`
	Strict  bool   `json:"strict,omitempty"`
}

// ParseResult reports whether a program compiles and what it contains.
type ParseResult struct {
	Valid     bool            `json:"valid" jsonschema_description:"True when the program compiled"`
	Error     *dsl.ParseError `json:"error,omitempty" jsonschema_description:"Parse failure with its position"`
	Blank     string          `json:"blank,omitempty"`
	Initial   string          `json:"initial,omitempty"`
	States    []string        `json:"states,omitempty"`
	Halting   []string        `json:"halting,omitempty" jsonschema_description:"States without outgoing rules"`
	Rules     int             `json:"rules"`
	Canonical string          `json:"canonical,omitempty" jsonschema_description:"The program in canonical layout"`
}

// RunArgs are the arguments of run_machine. Either Program or Machine is required.
type RunArgs struct {
	Program  string `json:"program,omitempty"`
	Machine  string `json:"machine,omitempty"`
	Tape     string `json:"tape,omitempty"`
	Head     int    `json:"head,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
	Trace    bool   `json:"trace,omitempty"`
}

// RunResult aligns with the HTTP RunResult schema.
type RunResult struct {
	State  string   `json:"state"`
	Cells  []string `json:"cells"`
	Head   int      `json:"head"`
	Steps  int      `json:"steps"`
	Halted bool     `json:"halted" jsonschema_description:"False when the step budget ran out first"`
	Reason string   `json:"reason,omitempty"`
	Tape   string   `json:"tape" jsonschema_description:"Rendered tape with the state before the head cell"`
	Trace  []string `json:"trace,omitempty"`
}

// MachineInfo describes one library entry.
type MachineInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tape        string `json:"tape,omitempty"`
	Head        int    `json:"head,omitempty"`
	MaxSteps    int    `json:"max_steps,omitempty"`
}

// MachineList is the result of list_machines.
type MachineList struct {
	Machines []MachineInfo `json:"machines"`
}

// Option configures the Server.
type Option func(*Server)

// WithHooks observes every run started by run_machine.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server exposes the interpreter and the machine library as an MCP server.
type Server struct {
	library   ports.MachineLibrary
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. library may be nil, in which case
// run_machine only accepts inline programs and list_machines is empty.
func NewServer(library ports.MachineLibrary, opts ...Option) *Server {
	s := &Server{
		library:   library,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("turing-mcp", strings.TrimSpace(turing.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	// TOOL: parse_program
	parseTool := mcp.NewTool("parse_program",
		mcp.WithDescription("Validate a Turing machine program written in the EMPTY:/INITIAL_STATE:/rules DSL."),
		mcp.WithString("program", mcp.Required(), mcp.Description("Program source")),
		mcp.WithBoolean("strict", mcp.Description("Reject configurations defined more than once")),
		mcp.WithOutputSchema[ParseResult](),
	)
	s.mcpServer.AddTool(parseTool, mcp.NewStructuredToolHandler(s.handleParse))

	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run a program (inline or from the library) on a tape until it halts or the step budget is spent."),
		mcp.WithString("program", mcp.Description("Program source (optional if machine is set)")),
		mcp.WithString("machine", mcp.Description("Library machine name (see list_machines)")),
		mcp.WithString("tape", mcp.Description("Whitespace separated input cells, e.g. \"1 + 1 1 =\"")),
		mcp.WithNumber("head", mcp.Description("Initial head position (default 0)")),
		mcp.WithNumber("max_steps", mcp.Description("Step budget")),
		mcp.WithBoolean("trace", mcp.Description("Return every visited configuration")),
		mcp.WithOutputSchema[RunResult](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: list_machines
	listTool := mcp.NewTool("list_machines",
		mcp.WithDescription("List the machines available in the library."),
		mcp.WithOutputSchema[MachineList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleList))
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest, args ParseArgs) (ParseResult, error) {
	var opts []dsl.Option
	if args.Strict {
		opts = append(opts, dsl.WithStrict())
	}
	prog, err := dsl.Parse(args.Program, opts...)
	if err != nil {
		var perr *dsl.ParseError
		if errors.As(err, &perr) {
			return ParseResult{Error: perr}, nil
		}
		return ParseResult{}, err
	}
	return ParseResult{
		Valid:     true,
		Blank:     prog.Blank,
		Initial:   prog.Initial,
		States:    prog.States(),
		Halting:   prog.Halting(),
		Rules:     len(prog.Effective()),
		Canonical: dsl.Format(prog),
	}, nil
}

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args RunArgs) (RunResult, error) {
	src, tape, head, budget := args.Program, args.Tape, args.Head, args.MaxSteps
	if src == "" {
		if args.Machine == "" {
			return RunResult{}, fmt.Errorf("either program or machine is required")
		}
		if s.library == nil {
			return RunResult{}, fmt.Errorf("no machine library configured")
		}
		def, err := s.library.Get(ctx, args.Machine)
		if err != nil {
			return RunResult{}, err
		}
		src = def.Program
		if tape == "" {
			tape, head = def.Tape, def.Head
		}
		if budget <= 0 {
			budget = def.MaxSteps
		}
	}
	if budget <= 0 {
		budget = DefaultMaxSteps
	}

	prog, err := dsl.Parse(src)
	if err != nil {
		return RunResult{}, fmt.Errorf("parse failed: %w", err)
	}

	opts := []runner.Option{
		runner.WithMaxSteps(budget),
		runner.WithLogger(s.logger),
		runner.WithHooks(s.hooks),
		runner.WithMachineID(args.Machine),
	}
	var trace bytes.Buffer
	if args.Trace {
		opts = append(opts, runner.WithTrace(&trace, runner.PlainTrace))
	}

	res, err := turing.Run(ctx, prog, dsl.Tokenize(tape), head, opts...)
	if err != nil && !errors.Is(err, domain.ErrStepLimit) {
		return RunResult{}, fmt.Errorf("run failed: %w", err)
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
	return out, nil
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest, _ struct{}) (MachineList, error) {
	machines, err := s.machines(ctx)
	if err != nil {
		return MachineList{}, err
	}
	return MachineList{Machines: machines}, nil
}

func (s *Server) machines(ctx context.Context) ([]MachineInfo, error) {
	out := []MachineInfo{}
	if s.library == nil {
		return out, nil
	}
	names, err := s.library.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	for _, name := range names {
		def, err := s.library.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, MachineInfo{
			Name:        def.Name,
			Description: def.Description,
			Tape:        def.Tape,
			Head:        def.Head,
			MaxSteps:    def.MaxSteps,
		})
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: turing://machines
	s.mcpServer.AddResource(mcp.NewResource(MachinesURI, "Machine Library",
		mcp.WithResourceDescription("Machines available to run_machine"),
		mcp.WithMIMEType("application/json"),
	), s.readMachines)
}

func (s *Server) readMachines(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	machines, err := s.machines(ctx)
	if err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(machines)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      MachinesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
