package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Turing",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("turing %s\n", strings.TrimSpace(turing.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
