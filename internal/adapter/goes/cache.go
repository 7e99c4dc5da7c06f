package goes

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// SceneSource resolves the nearest available scene to a target time.
type SceneSource interface {
	NearestScene(ctx context.Context, target time.Time) (domain.Scene, error)
	Extent() domain.Viewport
}

// CachedSceneSource wraps a SceneSource with an in-memory LRU cache keyed by
// the target's cadence slot. When the frame interval is shorter than the
// product cadence, consecutive targets resolve to the same scene; caching
// avoids re-downloading multi-megabyte rasters.
type CachedSceneSource struct {
	inner   SceneSource
	cadence time.Duration
	cache   *lruCache
}

// NewCachedSceneSource creates a cache decorator around a scene source.
func NewCachedSceneSource(inner SceneSource, cadence time.Duration, maxEntries int) *CachedSceneSource {
	return &CachedSceneSource{
		inner:   inner,
		cadence: cadence,
		cache:   newLRUCache(maxEntries),
	}
}

func (c *CachedSceneSource) NearestScene(ctx context.Context, target time.Time) (domain.Scene, error) {
	key := target.UTC().Truncate(c.cadence).Format(time.RFC3339)
	if cached, ok := c.cache.get(key); ok {
		return cached, nil
	}

	scene, err := c.inner.NearestScene(ctx, target)
	if err != nil {
		// Failures are not cached so a transient gap can be retried by a
		// later frame in the same slot.
		return scene, err
	}
	c.cache.put(key, scene)
	return scene, nil
}

func (c *CachedSceneSource) Extent() domain.Viewport {
	return c.inner.Extent()
}

// lruCache is a small thread-safe LRU cache for resolved scenes.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Scene
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Scene, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Scene{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Scene) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
