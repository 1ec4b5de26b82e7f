// Package cache implementa el almacenamiento del catálogo cacheado: en memoria
// (una sola instancia) o en Redis (compartido entre réplicas).
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/almacen-obra-api/internal/application/analytics"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

var _ analytics.CacheBackend = (*Memory)(nil)

type memoryEntry struct {
	items     []entity.CatalogItem
	expiresAt time.Time // cero: sin expiración
}

// Memory caché en memoria del proceso.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory construye un caché vacío.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get devuelve una copia de la entrada si existe y no expiró.
func (m *Memory) Get(_ context.Context, key string) ([]entity.CatalogItem, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]entity.CatalogItem(nil), e.items...), true, nil
}

// Set guarda una copia de items. ttl <= 0 no expira.
func (m *Memory) Set(_ context.Context, key string, items []entity.CatalogItem, ttl time.Duration) error {
	e := memoryEntry{items: append([]entity.CatalogItem(nil), items...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
