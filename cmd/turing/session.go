package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove the runs persisted with turing run --session.`,
}

var sessionLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend(cmd)
		defer backend.Close()

		sessions, err := backend.Store.List(cmd.Context())
		exitOnError("Error listing sessions", err)

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return
		}

		fmt.Println("Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:     "inspect <session-id>",
	Aliases: []string{"show"},
	Short:   "Inspect the state of a session",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		backend := openBackend(cmd)
		defer backend.Close()

		snap, err := backend.Store.Load(cmd.Context(), sessionID)
		exitOnError(fmt.Sprintf("Error loading session '%s'", sessionID), err)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := json.MarshalIndent(snap, "", "  ")
			exitOnError("Error marshaling session", err)
			fmt.Println(string(data))
			return
		}

		status := "paused"
		if snap.Halted {
			status = "halted"
		}
		if snap.Machine != "" {
			fmt.Printf("Machine: %s\n", snap.Machine)
		}
		fmt.Printf("Status:  %s after %d steps\n", status, snap.Steps)
		fmt.Printf("Tape:    %s\n", tape.New(snap.Cells, snap.Head, snap.Blank).Render(snap.State))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:     "rm <session-id>...",
	Aliases: []string{"delete"},
	Short:   "Remove one or more sessions",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend := openBackend(cmd)
		defer backend.Close()
		hasError := false

		for _, sessionID := range args {
			if err := backend.Store.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			backend.Close()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionCmd.PersistentFlags().String("store", "", "Session store: memory, file or redis")
	sessionCmd.PersistentFlags().String("store-dir", "", "Directory of the file session store")
	sessionCmd.PersistentFlags().String("redis-addr", "", "Redis address of the redis session store")
	sessionInspectCmd.Flags().Bool("json", false, "Print the raw snapshot as JSON")
}

// openBackend opens the session store configured for cmd, exiting on failure.
func openBackend(cmd *cobra.Command) *cli.Backend {
	cfg, err := loadConfig(cmd)
	exitOnError("Error loading config", err)
	backend, err := cli.OpenBackend(cfg)
	exitOnError("Error opening session store", err)
	return backend
}
