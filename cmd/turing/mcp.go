package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the interpreter as an MCP Server over Standard Input/Output, so AI agents
can parse programs, run machines and browse the library as tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		exitOnError("Error loading config", err)

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger, closer, err := cli.NewLogger(cfg)
		exitOnError("Error creating logger", err)
		defer closer.Close()
		slog.SetDefault(logger)

		lib, err := cli.OpenLibrary(cfg)
		exitOnError("Error opening library", err)

		srv := mcp.NewServer(lib, mcp.WithLogger(logger))

		logger.Info("Starting Turing MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP Server execution failed", "err", err)
			closer.Close()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
