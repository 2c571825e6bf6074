package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coocood/freecache"
)

// MemoryStore keeps documents in a freecache arena. Nothing survives a
// restart, so it is meant for development and tests.
//
// freecache refuses entries larger than 1/1024 of the arena. Such documents
// (a busy analysis-cache scope, typically) are kept in an overflow map
// instead, so a key lives in exactly one of the two places.
type MemoryStore struct {
	cache *freecache.Cache

	mu       sync.RWMutex
	overflow map[string]string
}

func NewMemoryStore(sizeMB int) *MemoryStore {
	if sizeMB <= 0 {
		sizeMB = 64
	}
	return &MemoryStore{
		cache:    freecache.NewCache(sizeMB * 1024 * 1024),
		overflow: make(map[string]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	val, ok := m.overflow[key]
	m.mu.RUnlock()
	if ok {
		return val, nil
	}

	raw, err := m.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.cache.Set([]byte(key), []byte(value), 0)
	if errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey) {
		m.cache.Del([]byte(key))
		m.overflow[key] = value
		return nil
	}
	if err != nil {
		return fmt.Errorf("memory store set %q: %w", key, err)
	}
	delete(m.overflow, key)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overflow, key)
	m.cache.Del([]byte(key))
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overflow = make(map[string]string)
	m.cache.Clear()
	return nil
}
