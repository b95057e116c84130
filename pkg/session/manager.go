package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
)

// DefaultLockTTL bounds how long a distributed session lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	every   int
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithCheckpointEvery saves the session every n transitions during Advance (0 = only at the end).
func WithCheckpointEvery(n int) Option {
	return func(m *Manager) {
		m.every = n
	}
}

// WithLogger configures a logger for the Manager. Nil keeps the no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionID]
	if !ok {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[sessionID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Start compiles def.Program, places the machine on def.Tape and stores the initial
// snapshot under sessionID. It fails with domain.ErrSessionExists if the ID is taken.
func (m *Manager) Start(ctx context.Context, sessionID string, def *domain.Definition) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, sessionID)
		if err == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionExists, sessionID)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		snap, err = m.create(ctx, sessionID, def)
		return err
	})
	return snap, err
}

// LoadOrStart returns the stored session, starting it from def when it does not exist.
// The boolean reports whether the session was loaded.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string, def *domain.Definition) (*domain.Snapshot, bool, error) {
	var (
		snap   *domain.Snapshot
		loaded bool
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		if err == nil {
			loaded = true
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		snap, err = m.create(ctx, sessionID, def)
		return err
	})
	return snap, loaded, err
}

func (m *Manager) create(ctx context.Context, sessionID string, def *domain.Definition) (*domain.Snapshot, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	prog, err := dsl.Parse(def.Program)
	if err != nil {
		return nil, err
	}
	snap := Capture(prog.Machine(dsl.Tokenize(def.Tape), def.Head))
	snap.Machine = def.Name
	snap.Program = def.Program

	if err := m.store.Save(ctx, sessionID, snap); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	m.logger.Debug("session started", "session_id", sessionID, "machine", def.Name)
	return snap, nil
}

// Advance restores the session, applies up to n transitions (n <= 0 runs until halt)
// and saves where the machine stopped. Running out of the n-step budget is not an
// error. Extra run options (trace, hooks) are applied to the run.
func (m *Manager) Advance(ctx context.Context, sessionID string, n int, opts ...runner.Option) (*domain.Snapshot, error) {
	var out *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		snap, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if snap.Halted {
			return fmt.Errorf("%w: %s", domain.ErrSessionHalted, sessionID)
		}
		prog, err := dsl.Parse(snap.Program)
		if err != nil {
			return fmt.Errorf("stored program of session %s: %w", sessionID, err)
		}
		mach, err := Restore(prog, snap)
		if err != nil {
			return err
		}

		stamp := func(s *domain.Snapshot) *domain.Snapshot {
			s.Machine = snap.Machine
			s.Program = snap.Program
			return s
		}

		runOpts := append([]runner.Option{
			runner.WithMaxSteps(n),
			runner.WithLogger(m.logger),
			runner.WithMachineID(sessionID),
		}, opts...)
		if m.every > 0 {
			runOpts = append(runOpts, runner.WithCheckpoint(m.every, func(ctx context.Context, steps int) error {
				m.logger.Debug("session checkpoint", "session_id", sessionID, "steps", steps)
				return m.store.Save(ctx, sessionID, stamp(Capture(mach)))
			}))
		}

		res, runErr := runner.Run(ctx, mach, runOpts...)
		if runErr != nil && !errors.Is(runErr, domain.ErrStepLimit) {
			if res == nil || res.Machine == nil {
				return runErr
			}
			// Interrupted: keep the progress made so far. A canceled ctx cannot be
			// used for the final write.
			if err := m.store.Save(context.WithoutCancel(ctx), sessionID, stamp(CaptureResult(res))); err != nil {
				m.logger.Warn("failed to save interrupted session", "session_id", sessionID, "err", err)
			}
			return runErr
		}

		out = stamp(CaptureResult(res))
		if err := m.store.Save(ctx, sessionID, out); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		m.logger.Debug("session advanced", "session_id", sessionID, "steps", out.Steps, "halted", out.Halted)
		return nil
	})
	return out, err
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Save persists a snapshot.
func (m *Manager) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, snap)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
