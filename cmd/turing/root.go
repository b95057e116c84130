package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is an interpreter for symbolic Turing machines",
	Long: `Turing runs machines written in a small DSL: a blank symbol, an initial state
and rules of the form (state, symbol): (next, write, L|R).`,
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")
	rootCmd.PersistentFlags().String("library", "", "Directory of machine documents (default: bundled examples)")
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":        "log_level",
	"log-file":         "log_file",
	"library":          "library",
	"tape":             "tape",
	"head":             "head",
	"max-steps":        "max_steps",
	"trace":            "trace",
	"store":            "store",
	"store-dir":        "store_dir",
	"checkpoint-every": "checkpoint_every",
	"port":             "http.port",
	"redis-addr":       "redis.addr",
}

// loadConfig reads the configuration file and applies the flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		parent, leaf, nested := strings.Cut(key, ".")
		if !nested {
			overrides[key] = f.Value.String()
			continue
		}
		section, _ := overrides[parent].(map[string]any)
		if section == nil {
			section = make(map[string]any)
			overrides[parent] = section
		}
		section[leaf] = f.Value.String()
	}
	if err := config.Decode(overrides, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, cfg.Validate()
}

// exitOnError prints err with its context and exits with status 1.
func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
		os.Exit(1)
	}
}

// resolveDefinition loads the program named by args, --example or the config file.
func resolveDefinition(cmd *cobra.Command, args []string) *domain.Definition {
	cfg, err := loadConfig(cmd)
	exitOnError("Error loading config", err)
	lib, err := cli.OpenLibrary(cfg)
	exitOnError("Error opening library", err)

	src := cli.Source{Fallback: cfg.Program}
	src.Example, _ = cmd.Flags().GetString("example")
	if len(args) > 0 {
		src.File = args[0]
	}
	def, err := cli.Resolve(cmd.Context(), lib, src)
	exitOnError("Error loading program", err)
	return def
}
