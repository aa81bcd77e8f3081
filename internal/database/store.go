package database

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"
)

// Store is the durable key/value space every other component persists
// through. Set is fallible (storage may be full or unavailable) and callers
// are expected to surface the error to the user rather than crash.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}

// SQLStore persists entries in the kv_entries table of the global
// connection. Works against both the SQLite and Postgres backends.
type SQLStore struct{}

// NewSQLStore creates a new store instance
func NewSQLStore() *SQLStore {
	return &SQLStore{}
}

// Get returns the value stored under key, and whether it was present
func (s *SQLStore) Get(key string) (string, bool, error) {
	var value string
	err := DB.Get(&value, "SELECT value FROM kv_entries WHERE key = $1", key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %v", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value
func (s *SQLStore) Set(key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`
	if _, err := DB.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to write key %q: %v", key, err)
	}
	return nil
}

// Remove deletes the entry under key; removing a missing key is not an error
func (s *SQLStore) Remove(key string) error {
	if _, err := DB.Exec("DELETE FROM kv_entries WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to remove key %q: %v", key, err)
	}
	return nil
}

// Keys enumerates all stored keys; order is not guaranteed
func (s *SQLStore) Keys() ([]string, error) {
	var keys []string
	if err := DB.Select(&keys, "SELECT key FROM kv_entries"); err != nil {
		return nil, fmt.Errorf("failed to enumerate keys: %v", err)
	}
	return keys, nil
}

// MemoryStore is a map-backed Store used in tests and as a fallback when no
// durable backend is available.
type MemoryStore struct {
	data map[string]string
	mu   sync.RWMutex

	// FailSets forces Set to return an error, for exercising storage-failure
	// paths in tests
	FailSets bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSets {
		return fmt.Errorf("failed to write key %q: storage unavailable", key)
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
