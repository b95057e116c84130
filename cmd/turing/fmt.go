package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Print a program in canonical layout",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		def := resolveDefinition(cmd, args)
		out, err := cli.Format(def)
		exitOnError("Error formatting program", err)

		write, _ := cmd.Flags().GetBool("write")
		if !write || len(args) == 0 || args[0] == "-" {
			fmt.Print(out)
			return
		}
		exitOnError("Error writing file", os.WriteFile(args[0], []byte(out), 0o644))
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolP("write", "w", false, "Write the result to the source file instead of stdout")
	fmtCmd.Flags().StringP("example", "e", "", "Format a machine from the library")
}
