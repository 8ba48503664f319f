// Package cache holds a bounded in-process TTL cache keyed by entity type
// plus filter signature. Writers invalidate whole entity prefixes after every
// successful mutation; the invalidation is best-effort rather than
// linearizable, so a concurrent writer can leave a stale entry for at most
// one TTL window.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/raisehub/admin-manager/internal/dependency"
)

const (
	DefaultTTL        = 300 * time.Second
	defaultMaxEntries = 4096
	keySep            = ":"
)

type Config struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
}

// New returns a cache with the configured TTL and size bound; zero values
// fall back to the defaults.
func New(cfg Config) dependency.Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	max := cfg.MaxEntries
	if max <= 0 {
		max = defaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: max,
	}
}

// Key builds a cache key from an entity type and the filter parts that make
// the cached result unique.
func Key(entityType string, parts ...any) string {
	b := strings.Builder{}
	b.WriteString(entityType)
	for _, p := range parts {
		b.WriteString(keySep)
		fmt.Fprintf(&b, "%v", p)
	}
	return b.String()
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxEntries {
		c.evictExpiredLocked()
		// still full after dropping expired entries: drop arbitrary ones,
		// the cache is an optimization and misses are cheap
		for k := range c.entries {
			if len(c.entries) < c.maxEntries {
				break
			}
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{value: v, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops every key belonging to the given entity types.
func (c *Cache) Invalidate(entities ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ent := range entities {
		prefix := ent + keySep
		for k := range c.entries {
			if k == ent || strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) evictExpiredLocked() {
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
