package locator

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/taskpilot/droidtask/internal/domain"
)

// referenceCacheTTL bounds how long a decoded reference image is kept
// around; reference images never change at runtime, so this is generous.
const referenceCacheTTL = 30 * time.Minute

// resultCacheTTL bounds the per-step locate-result memoization window
// (the "dynamic-target location result caching within one step" feature):
// short enough that a later step in the same run never sees a stale hit,
// long enough to cover a single executor step's re-verification call.
const resultCacheTTL = 5 * time.Second

// referenceCache holds decoded grayscale reference images keyed by their
// file path, stdlib-only for the same reason the asset store's resolved-name
// cache is (see DESIGN.md).
type referenceCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]referenceCacheEntry
}

type referenceCacheEntry struct {
	img       *grayImage
	expiresAt time.Time
}

func newReferenceCache() *referenceCache {
	return &referenceCache{ttl: referenceCacheTTL, entries: make(map[string]referenceCacheEntry)}
}

func (c *referenceCache) get(path string) (*grayImage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[path]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.img, true
}

func (c *referenceCache) set(path string, img *grayImage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = referenceCacheEntry{img: img, expiresAt: time.Now().Add(c.ttl)}
}

// resultCache memoizes a LocateResult by (screenshot hash, target, strategy)
// so a redundant identical locate call within one executor step returns the
// memoized result instead of re-running the pipeline.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]resultCacheEntry
}

type resultCacheEntry struct {
	result    domain.LocateResult
	expiresAt time.Time
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string]resultCacheEntry)}
}

func (c *resultCache) get(key string) (domain.LocateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return domain.LocateResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) set(key string, result domain.LocateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resultCacheEntry{result: result, expiresAt: time.Now().Add(resultCacheTTL)}
}

// resultCacheKey derives a stable key from the screenshot bytes, target, and
// forced strategy so distinct calls never collide.
func resultCacheKey(req domain.LocateRequest) string {
	h := sha256.Sum256(req.Screenshot)
	return hex.EncodeToString(h[:8]) + "|" + req.Target + "|" + req.Strategy
}
