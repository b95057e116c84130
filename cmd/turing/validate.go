package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a program for errors",
	Long:  `Parses a program and reports the first error with its position, or a summary of the machine.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def := resolveDefinition(cmd, args)
		strict, _ := cmd.Flags().GetBool("strict")
		exitOnError("Validation failed", cli.Validate(def, strict, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Reject configurations defined more than once")
	validateCmd.Flags().StringP("example", "e", "", "Validate a machine from the library")
}
