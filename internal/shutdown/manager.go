package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"engrave-prep/internal/logger"
)

// Shutdownable is implemented by components that hold pending work at exit,
// such as a debounced settings write waiting out its quiescence window.
type Shutdownable interface {
	Name() string
	Shutdown(ctx context.Context) error
}

// ComponentTimeout bounds how long any single component may take to drain.
const ComponentTimeout = 10 * time.Second

// Manager coordinates orderly teardown. Components are shut down in reverse
// registration order so the pipeline coordinator drains before the storage
// it writes to goes away.
type Manager struct {
	mu         sync.Mutex
	components []Shutdownable
	logger     logger.Logger
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Noop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		logger: log,
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Manager) Register(component Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component)
}

// Listen installs signal handlers for SIGINT and SIGTERM.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigChan
		m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		m.Shutdown()
	}()
}

// Shutdown drains every registered component, newest first. Safe to call more
// than once; later calls return after the first completes.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.components),
	})

	m.cancel()

	for i := len(m.components) - 1; i >= 0; i-- {
		m.drain(m.components[i])
	}

	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
}

func (m *Manager) drain(component Shutdownable) {
	ctx, cancel := context.WithTimeout(context.Background(), ComponentTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- component.Shutdown(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			m.logger.Error("ShutdownManager", err, map[string]interface{}{
				"component": component.Name(),
			})
		}
	case <-ctx.Done():
		m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
			"component": component.Name(),
		})
	}
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}
