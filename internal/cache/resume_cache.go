// Package cache implements the ResumeCache: a process-local mapping from an
// industry-filter cache key to a preloaded resume set, bounded by a TTL and
// clearable under memory pressure.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/matchengine/internal/models"
)

const allIndustriesKey = "all_industries"

type entry struct {
	resumes  []models.Resume
	storedAt time.Time
}

// ResumeCache is safe for concurrent use by multiple worker goroutines.
type ResumeCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// New returns a ResumeCache whose entries expire after ttl.
func New(ttl time.Duration) *ResumeCache {
	return &ResumeCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Key derives the cache key for a set of industry prefixes: the sorted,
// joined prefix set, or "all_industries" when prefixes is empty.
func Key(prefixes []string) string {
	if len(prefixes) == 0 {
		return allIndustriesKey
	}
	sorted := append([]string(nil), prefixes...)
	sort.Strings(sorted)
	return strings.Join(sorted, "_")
}

// Get returns the cached resume list for key iff its age is below the
// configured TTL. A present result is a read-only view for the caller's
// borrow duration: the underlying slice is never mutated after Set.
func (c *ResumeCache) Get(key string) ([]models.Resume, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.resumes, true
}

// Set records resumes under key, stamping the insertion time.
func (c *ResumeCache) Set(key string, resumes []models.Resume) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{resumes: resumes, storedAt: time.Now()}
}

// Clear drops all entries, used when the engine detects memory pressure.
func (c *ResumeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of live entries, primarily for tests/diagnostics.
func (c *ResumeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
