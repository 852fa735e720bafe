package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"
)

type cacheEntry struct {
	table     *Table
	expiresAt time.Time
}

// Cache keeps parsed tables in memory so that reloading unchanged source
// files skips parsing. Entries are keyed by path, size and modification time,
// so an edited file is always read again.
//
// A nil *Cache is valid and caches nothing.
type Cache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewCache returns a cache whose entries live for ttl. ttl <= 0 disables caching.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return nil
	}
	return &Cache{store: make(map[string]cacheEntry), ttl: ttl, now: time.Now}
}

// Open returns the cached table for path or reads it with Open.
// hit reports whether the table came from the cache.
func (c *Cache) Open(path string) (t *Table, hit bool, err error) {
	if c == nil {
		t, err = Open(path)
		return t, false, err
	}
	key, err := cacheKey(path)
	if err != nil {
		return nil, false, err
	}
	if t, ok := c.get(key); ok {
		return t, true, nil
	}
	t, err = Open(path)
	if err != nil {
		return nil, false, err
	}
	c.set(key, t)
	return t, false, nil
}

// Len is the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear drops all entries.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

func (c *Cache) get(key string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.store[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.table, true
}

func (c *Cache) set(key string, t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = cacheEntry{table: t, expiresAt: now.Add(c.ttl)}
}

func cacheKey(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	keyStr := fmt.Sprintf("%s:%d:%d", path, st.Size(), st.ModTime().UnixNano())
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:]), nil
}
