package cartstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kimhabork/storefront-backend/pkg/config"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

const sweepInterval = 5 * time.Minute

// Manager owns every live session store. Stores are created on first use
// and evicted after the configured idle TTL so abandoned sessions do not
// accumulate.
type Manager struct {
	remote Remote
	cfg    config.CartConfig
	logg   *logger.Logger

	mu     sync.Mutex
	stores map[string]*Store

	stop chan struct{}
	done chan struct{}
}

func NewManager(remote Remote, cfg config.CartConfig, logg *logger.Logger) *Manager {
	m := &Manager{
		remote: remote,
		cfg:    cfg,
		logg:   logg,
		stores: map[string]*Store{},
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Get returns the store for a session, creating one on first use.
func (m *Manager) Get(sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[sessionID]
	if !ok {
		store = NewStore(m.remote, m.cfg, m.logg)
		m.stores[sessionID] = store
	}
	store.touch()
	return store
}

// Drop removes a session's store immediately.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}

// Len reports the number of live session stores.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Sweep evicts stores idle past the session TTL and reports how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, store := range m.stores {
		if now.Sub(store.idleSince()) > m.cfg.SessionTTL {
			delete(m.stores, id)
			evicted++
		}
	}
	return evicted
}

func (m *Manager) janitor() {
	defer close(m.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			if evicted := m.Sweep(now); evicted > 0 {
				m.logg.Info(context.Background(), fmt.Sprintf("evicted %d idle cart sessions", evicted))
			}
		}
	}
}

// Close stops the eviction loop.
func (m *Manager) Close() {
	close(m.stop)
	<-m.done
}
