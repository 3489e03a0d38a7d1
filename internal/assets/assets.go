// Package assets reads model files from a list of search paths and caches them.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when a file exists in none of the search paths.
var ErrNotFound = errors.New("asset not found")

// Manager resolves relative asset paths against search paths.
type Manager struct {
	searchPaths []string
	cache       *Cache
	mu          sync.RWMutex
}

// NewManager creates a new asset manager. With no search paths the working
// directory is used.
func NewManager(searchPaths ...string) *Manager {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	return &Manager{
		searchPaths: append([]string(nil), searchPaths...),
		cache:       NewCache(),
	}
}

// AddSearchPath adds a directory to search.
// Paths are searched in reverse order (last added = highest priority).
func (m *Manager) AddSearchPath(dir string) {
	m.mu.Lock()
	m.searchPaths = append(m.searchPaths, dir)
	m.mu.Unlock()
}

// SearchPaths returns a copy of the search paths.
func (m *Manager) SearchPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.searchPaths...)
}

// Resolve returns the absolute path of an existing file. Absolute paths are
// checked as is.
func (m *Manager) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if isFile(path) {
			return filepath.Clean(path), nil
		}
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.searchPaths) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.searchPaths[i], path)
		if isFile(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrNotFound)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load resolves path and returns its contents, from the cache when possible.
func (m *Manager) Load(path string) ([]byte, error) {
	resolved, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}

	if data, ok := m.cache.Get(resolved); ok {
		return data, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", resolved, err)
	}
	m.cache.Set(resolved, data)
	return data, nil
}

// Evict drops a resolved path from the cache.
func (m *Manager) Evict(resolved string) {
	m.cache.Delete(resolved)
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Close clears the cache.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	// Write lock: the stat counters change on every lookup.
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
