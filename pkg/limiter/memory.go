package limiter

import (
	"context"
	"sync"
	"time"
)

// counter tracks attempts for one key within a fixed window.
type counter struct {
	resetAt time.Time
	count   int
}

func (c *counter) expired() bool {
	return time.Now().After(c.resetAt)
}

// Memory is an in-memory fixed-window limiter. Expired windows are removed
// by a background janitor.
//
// Suitable for single-process deployments and tests; use Redis when limits
// must hold across instances.
type Memory struct {
	items  map[string]*counter
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// MemoryOption configures the in-memory limiter.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	cleanupInterval time.Duration
}

// WithCleanupInterval sets how often expired windows are purged.
// Defaults to one minute. Zero disables the janitor.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// NewMemory creates an in-memory limiter.
//
// Example:
//
//	lim := limiter.NewMemory()
//	defer lim.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := &memoryOptions{cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]*counter),
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor(o.cleanupInterval)
	}

	return m
}

func (m *Memory) TooManyAttempts(_ context.Context, key string, maxAttempts int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.live(key)
	if !ok {
		return false, nil
	}
	return c.count >= maxAttempts, nil
}

func (m *Memory) Hit(_ context.Context, key string, decay time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if c, ok := m.live(key); ok {
		c.count++
		return nil
	}

	m.items[key] = &counter{count: 1, resetAt: time.Now().Add(decay)}
	return nil
}

func (m *Memory) Remaining(_ context.Context, key string, maxAttempts int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.live(key)
	if !ok {
		return maxAttempts, nil
	}
	return max(maxAttempts-c.count, 0), nil
}

func (m *Memory) AvailableIn(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	return max(time.Until(c.resetAt), 0), nil
}

func (m *Memory) AvailableAt(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.live(key)
	if !ok {
		return 0, nil
	}
	return c.resetAt.Unix(), nil
}

func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Close stops the janitor. The limiter rejects hits afterwards.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

// live returns the counter for key if its window is still active,
// dropping it otherwise. Callers must hold the mutex.
func (m *Memory) live(key string) (*counter, bool) {
	c, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if c.expired() {
		delete(m.items, key)
		return nil, false
	}
	return c, true
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			for key, c := range m.items {
				if c.expired() {
					delete(m.items, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ Limiter = (*Memory)(nil)
