package main

import (
	"context"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a machine until it halts",
	Long: `Runs a program file (or "-" for stdin), a library machine (--example) or the
program named in the configuration, printing the final configuration.

With --session the run is persisted and a later call resumes it.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading config", err)

		logger, closer, err := cli.NewLogger(cfg)
		exitOnError("Error creating logger", err)
		defer closer.Close()

		def := resolveDefinition(cmd, args)
		example, _ := cmd.Flags().GetString("example")
		if cmd.Flags().Changed("tape") || (example == "" && cfg.Tape != "") {
			def.Tape = cfg.Tape
		}
		if cmd.Flags().Changed("head") || (example == "" && cfg.Head != 0) {
			def.Head = cfg.Head
		}
		maxSteps := cfg.MaxSteps
		if !cmd.Flags().Changed("max-steps") && def.MaxSteps > 0 {
			maxSteps = def.MaxSteps
		}

		opts := cli.RunOptions{
			Definition: def,
			MaxSteps:   maxSteps,
			Trace:      cfg.Trace,
			Logger:     logger,
		}
		opts.Report, _ = cmd.Flags().GetBool("report")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		if opts.SessionID != "" {
			backend, err := cli.OpenBackend(cfg)
			exitOnError("Error opening session store", err)
			defer backend.Close()
			opts.Sessions = cli.NewManager(cfg, backend, logger)
		}

		ctx, stop := runner.NotifyContext(context.Background())
		defer stop()

		if _, err := cli.Run(ctx, opts, os.Stdout); err != nil {
			stop()
			closer.Close()
			exitOnError("Error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("tape", "", "Initial tape, whitespace separated (e.g. \"1 + 1 1 =\")")
	runCmd.Flags().Int("head", 0, "Initial head position")
	runCmd.Flags().Int("max-steps", 0, "Step budget, 0 for unbounded (default from config)")
	runCmd.Flags().BoolP("trace", "t", false, "Print every configuration")
	runCmd.Flags().StringP("example", "e", "", "Run a machine from the library")
	runCmd.Flags().StringP("session", "s", "", "Persist the run under this session ID and resume it")
	runCmd.Flags().String("store", "", "Session store: memory, file or redis")
	runCmd.Flags().String("store-dir", "", "Directory of the file session store")
	runCmd.Flags().String("redis-addr", "", "Redis address of the redis session store")
	runCmd.Flags().Int("checkpoint-every", 0, "Save the session every n transitions")
	runCmd.Flags().Bool("report", false, "Print a Markdown report of the final state")
}
