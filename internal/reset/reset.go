package reset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrInProgress is returned when a reset is requested while another is
// still running.
var ErrInProgress = errors.New("reset already in progress")

// Interrupter silences a ringing alarm without resolving it.
type Interrupter interface {
	Interrupt()
}

// Storage is the key-value data to wipe.
type Storage interface {
	Clear() error
}

// Subscriptions is the push registry to wipe.
type Subscriptions interface {
	DeleteAll() (int64, error)
}

// Manager wipes all application data. While a wipe runs, Resetting
// reports true and the alarm engine stays idle.
type Manager struct {
	resetting atomic.Bool
	storage   Storage
	subs      Subscriptions
	logger    *slog.Logger

	mu     sync.RWMutex
	engine Interrupter
}

// NewManager returns a Manager; attach the engine with SetInterrupter.
func NewManager(storage Storage, subs Subscriptions, logger *slog.Logger) *Manager {
	return &Manager{storage: storage, subs: subs, logger: logger}
}

// SetInterrupter registers the engine to silence at the start of a reset.
// The engine itself depends on the manager, so it is attached after both
// are built.
func (m *Manager) SetInterrupter(i Interrupter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine = i
}

// Resetting reports whether a reset is running.
func (m *Manager) Resetting() bool {
	return m.resetting.Load()
}

// Reset clears every stored key and push subscription.
func (m *Manager) Reset(ctx context.Context) error {
	if !m.resetting.CompareAndSwap(false, true) {
		return ErrInProgress
	}
	defer m.resetting.Store(false)

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	engine := m.engine
	m.mu.RUnlock()
	if engine != nil {
		engine.Interrupt()
	}

	if err := m.storage.Clear(); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	removed, err := m.subs.DeleteAll()
	if err != nil {
		return fmt.Errorf("clear push subscriptions: %w", err)
	}

	m.logger.Info("application data reset", "push_subscriptions", removed)
	return nil
}
