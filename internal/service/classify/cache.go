package classify

import (
	"container/list"
	"sync"
	"time"

	"github.com/lumenwell/lumen-notification-triage/internal/domain"
)

type cacheEntry struct {
	key        string
	urgency    domain.Urgency
	confidence float64
	storedAt   time.Time
}

// resultCache is a bounded LRU with per-entry TTL. A hit returns the
// stored urgency and confidence unchanged so cached answers never
// drift from fresh ones.
type resultCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	order   *list.List
	entries map[string]*list.Element
}

func newResultCache(maxSize int, ttl time.Duration) *resultCache {
	return &resultCache{
		maxSize: maxSize,
		ttl:     ttl,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (c *resultCache) get(key string, now time.Time) (domain.Urgency, float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return "", 0, false
	}

	entry := elem.Value.(*cacheEntry)
	if now.Sub(entry.storedAt) > c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		return "", 0, false
	}

	c.order.MoveToFront(elem)
	return entry.urgency, entry.confidence, true
}

func (c *resultCache) put(key string, urgency domain.Urgency, confidence float64, now time.Time) {
	if c.maxSize <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.urgency = urgency
		entry.confidence = confidence
		entry.storedAt = now
		c.order.MoveToFront(elem)
		return
	}

	for len(c.entries) >= c.maxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{
		key:        key,
		urgency:    urgency,
		confidence: confidence,
		storedAt:   now,
	})
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
