// Package cli wires configuration into the stores, libraries and runs used by
// the turing command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/file"
	loamAdapter "github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
)

// Backend is an opened snapshot store with its optional distributed locker.
type Backend struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the connections held by the backend.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the store selected by cfg.Store.
func OpenBackend(cfg config.Config) (*Backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &Backend{Store: memory.NewStore()}, nil
	case config.StoreFile:
		return &Backend{Store: file.New(cfg.StoreDir)}, nil
	case config.StoreRedis:
		opts := []redisAdapter.Option{redisAdapter.WithPrefix(cfg.Redis.Prefix)}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redisAdapter.WithTTL(cfg.Redis.TTL))
		}
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return &Backend{
			Store:  store,
			Locker: redisAdapter.NewLocker(store.Client(), cfg.Redis.Prefix),
			close:  store.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// NewManager creates a session manager over b, checkpointing as cfg says.
func NewManager(cfg config.Config, b *Backend, logger *slog.Logger) *session.Manager {
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithCheckpointEvery(cfg.CheckpointEvery),
	}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Store, opts...)
}

// OpenLibrary returns the Loam library at cfg.Library, or the bundled examples
// when no library directory is configured.
func OpenLibrary(cfg config.Config) (ports.MachineLibrary, error) {
	if cfg.Library == "" {
		return memory.NewExamplesLibrary(), nil
	}
	lib, err := loamAdapter.Open(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", cfg.Library, err)
	}
	return lib, nil
}

// NewLogger builds the logger described by cfg. The closer releases the log file.
func NewLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" {
		return logging.New(level), io.NopCloser(nil), nil
	}
	return logging.NewWithFile(level, cfg.LogFile)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin
