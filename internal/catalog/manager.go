package catalog

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/woxQAQ/unified-sql-lsp-sub002/internal/dialect"
)

// key identifies one cached adapter by the (dialect, connection string)
// pair spec §4.5 specifies a catalog is scoped to.
type key struct {
	dialect          dialect.Dialect
	connectionString string
}

// Opener constructs a live Catalog adapter for a dialect and connection
// string. Registered per family so the manager never hard-codes driver
// packages for dialects it wasn't built with.
type Opener func(d dialect.Dialect, connectionString string) (Catalog, error)

// Manager caches one Catalog adapter per (dialect, connection string)
// pair and bounds the number of concurrently-open adapters, yielding
// ErrTooManyConnections rather than silently queuing or dropping new
// requests, per spec §5 "Back-pressure".
type Manager struct {
	mu       sync.RWMutex
	adapters map[key]Catalog
	openers  map[dialect.Family]Opener
	sem      chan struct{}
	log      *logrus.Entry
}

// NewManager creates a Manager bounding the number of simultaneously
// open adapters to maxConnections. A maxConnections <= 0 means
// unbounded.
func NewManager(maxConnections int) *Manager {
	m := &Manager{
		adapters: make(map[key]Catalog),
		openers:  make(map[dialect.Family]Opener),
		log:      logrus.WithField("component", "catalog.manager"),
	}
	if maxConnections > 0 {
		m.sem = make(chan struct{}, maxConnections)
	}
	return m
}

// Register installs the Opener used to construct adapters for a family.
// Unregistered families return ErrNotSupported without attempting I/O,
// per spec §4.5.
func (m *Manager) Register(f dialect.Family, open Opener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openers[f] = open
}

// Get returns the cached adapter for (d, connectionString), opening and
// caching a new one on first use. An empty connectionString always
// yields the static mock catalog, per spec §6 configuration semantics.
func (m *Manager) Get(d dialect.Dialect, connectionString string) (Catalog, error) {
	if connectionString == "" {
		return NewMock(d), nil
	}

	k := key{dialect: d, connectionString: connectionString}

	m.mu.RLock()
	if c, ok := m.adapters[k]; ok {
		m.mu.RUnlock()
		return c, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check under the write lock: another writer may have beaten us.
	if c, ok := m.adapters[k]; ok {
		return c, nil
	}

	open, ok := m.openers[d.Family()]
	if !ok {
		return nil, ErrNotSupported.New(d.String())
	}

	if m.sem != nil {
		select {
		case m.sem <- struct{}{}:
		default:
			return nil, ErrTooManyConnections.New(d.String())
		}
	}

	c, err := open(d, connectionString)
	if err != nil {
		if m.sem != nil {
			<-m.sem
		}
		return nil, ErrConnectionFailed.New(err.Error())
	}

	m.adapters[k] = c
	m.log.WithFields(logrus.Fields{
		"dialect": d.String(),
	}).Debug("opened catalog adapter")
	return c, nil
}

// Close drops all cached adapters, closing their underlying connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for k, c := range m.adapters {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing catalog for %s: %w", k.dialect, err)
		}
		delete(m.adapters, k)
		if m.sem != nil {
			<-m.sem
		}
	}
	return firstErr
}
