package assets

import (
	"sync"
	"time"

	"github.com/taskpilot/droidtask/internal/domain"
)

// ttlCache is a small in-process, expiry-aware cache for resolved reference
// names. The asset store has no networked cache/queue target (a single CLI
// process resolving read-only local files), so this stays stdlib-only
// rather than reaching for a Redis-backed client (see DESIGN.md).
type ttlCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	variants  domain.ImageVariants
	expiresAt time.Time
}

func newTTLCache(ttl time.Duration) *ttlCache {
	return &ttlCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

func (c *ttlCache) get(name string) (domain.ImageVariants, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[name]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.variants, true
}

func (c *ttlCache) set(name string, variants domain.ImageVariants) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{variants: variants, expiresAt: time.Now().Add(c.ttl)}
}

func (c *ttlCache) invalidate(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}
