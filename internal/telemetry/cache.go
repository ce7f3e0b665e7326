package telemetry

import (
	"strconv"
	"sync"
	"time"
)

type CacheStats struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	MaxSize int    `json:"max_size"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	HitRate string `json:"hit_rate"`
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a bounded map with per-entry expiry. When full, the entry
// closest to expiry is evicted to make room.
type TTLCache[V any] struct {
	mu      sync.Mutex
	name    string
	items   map[string]cacheEntry[V]
	maxSize int
	ttl     time.Duration
	hits    int64
	misses  int64
}

func NewTTLCache[V any](name string, maxSize int, ttl time.Duration) *TTLCache[V] {
	c := &TTLCache[V]{
		name:    name,
		items:   make(map[string]cacheEntry[V]),
		maxSize: maxSize,
		ttl:     ttl,
	}

	go c.cleanupLoop()

	return c
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.items, key)
		c.misses++
		return zero, false
	}

	c.hits++
	return entry.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictSoonest()
	}

	c.items[key] = cacheEntry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *TTLCache[V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	hitRate := "0%"
	if total := c.hits + c.misses; total > 0 {
		rate := float64(c.hits) / float64(total) * 100
		hitRate = strconv.FormatFloat(rate, 'f', 1, 64) + "%"
	}

	return CacheStats{
		Name:    c.name,
		Size:    len(c.items),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

func (c *TTLCache[V]) evictSoonest() {
	var victim string
	var soonest time.Time
	first := true

	for key, entry := range c.items {
		if first || entry.expiresAt.Before(soonest) {
			victim = key
			soonest = entry.expiresAt
			first = false
		}
	}

	if !first {
		delete(c.items, victim)
	}
}

func (c *TTLCache[V]) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.items {
			if now.After(entry.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
