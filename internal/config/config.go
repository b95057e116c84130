// Package config loads interpreter settings from an optional YAML (or JSON) file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "turing.yaml"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Redis configures the Redis snapshot store and the distributed session lock.
type Redis struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// HTTP configures the API server.
type HTTP struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// Config is the complete set of settings. Command-line flags override file values.
type Config struct {
	// Program is the path of a DSL file to run.
	Program  string `mapstructure:"program" yaml:"program"`
	Tape     string `mapstructure:"tape" yaml:"tape"`
	Head     int    `mapstructure:"head" yaml:"head"`
	MaxSteps int    `mapstructure:"max_steps" yaml:"max_steps"`
	Trace    bool   `mapstructure:"trace" yaml:"trace"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	// Store selects the session backend: memory, file or redis.
	Store           string `mapstructure:"store" yaml:"store"`
	StoreDir        string `mapstructure:"store_dir" yaml:"store_dir"`
	Redis           Redis  `mapstructure:"redis" yaml:"redis"`
	CheckpointEvery int    `mapstructure:"checkpoint_every" yaml:"checkpoint_every"`

	HTTP HTTP `mapstructure:"http" yaml:"http"`

	// Library is a directory of machine documents. Empty means the bundled examples.
	Library string `mapstructure:"library" yaml:"library"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		MaxSteps: 1_000_000,
		LogLevel: "info",
		Store:    StoreFile,
		StoreDir: ".turing/sessions",
		Redis: Redis{
			Addr:   "localhost:6379",
			Prefix: "turing:session:",
		},
		CheckpointEvery: 1000,
		HTTP:            HTTP{Port: 8080},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode merges raw into cfg. Scalars are converted loosely ("100" -> 100,
// "30s" -> 30s); unknown keys are rejected.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{StoreMemory, StoreFile, StoreRedis}, c.Store) {
		errs = append(errs, fmt.Errorf("store must be memory, file or redis, got %q", c.Store))
	}
	if c.Head < 0 {
		errs = append(errs, fmt.Errorf("head must not be negative, got %d", c.Head))
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max_steps must not be negative, got %d", c.MaxSteps))
	}
	if c.CheckpointEvery < 0 {
		errs = append(errs, fmt.Errorf("checkpoint_every must not be negative, got %d", c.CheckpointEvery))
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	return errors.Join(errs...)
}
