package main

import (
	"fmt"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the state diagram as Mermaid",
	Long: `Prints the transition graph of a program as a Mermaid state diagram.
With --session the diagram highlights the state the session is in, and the
session's own program is used when no file or example is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var snap *domain.Snapshot
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID != "" {
			backend := openBackend(cmd)
			defer backend.Close()
			var err error
			snap, err = backend.Store.Load(cmd.Context(), sessionID)
			exitOnError(fmt.Sprintf("Error loading session '%s'", sessionID), err)
		}

		var def *domain.Definition
		example, _ := cmd.Flags().GetString("example")
		if snap != nil && len(args) == 0 && example == "" {
			def = &domain.Definition{Name: snap.Machine, Program: snap.Program}
		} else {
			def = resolveDefinition(cmd, args)
		}

		diagram, err := cli.Graph(def, snap)
		exitOnError("Error generating graph", err)
		fmt.Println(diagram)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("example", "e", "", "Graph a machine from the library")
	graphCmd.Flags().StringP("session", "s", "", "Highlight the current state of this session")
	graphCmd.Flags().String("store", "", "Session store: memory, file or redis")
	graphCmd.Flags().String("store-dir", "", "Directory of the file session store")
	graphCmd.Flags().String("redis-addr", "", "Redis address of the redis session store")
}
