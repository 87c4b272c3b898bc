// Package cache fronts the registry's linear shortcode scan with a
// Ristretto in-process cache on the resolve path.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"

	"shortlink-registry/config"
	"shortlink-registry/model"
)

// Cache stores resolved short-link records keyed by shortcode.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates a cache sized per configuration.
func New(cfg config.CacheConfig) (*Cache, error) {
	maxCost := int64(cfg.MaxSizeMB) * 1024 * 1024

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CounterSize), // keys tracked for admission frequency
		MaxCost:     maxCost,                // maximum cache size in bytes
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("max_size_mb", cfg.MaxSizeMB).
		Int("ttl_seconds", cfg.TTLSeconds).
		Int("counter_size", cfg.CounterSize).
		Msg("Resolve cache initialized")

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// Get returns a copy of the cached record for a shortcode, if present.
func (c *Cache) Get(shortcode string) (model.ShortLink, bool) {
	if c == nil || c.client == nil {
		return model.ShortLink{}, false
	}
	value, found := c.client.Get(shortcode)
	if !found {
		return model.ShortLink{}, false
	}
	link, ok := value.(model.ShortLink)
	if !ok {
		return model.ShortLink{}, false
	}
	return link.Clone(), true
}

// Set stores a record with the configured TTL.
func (c *Cache) Set(shortcode string, link model.ShortLink) {
	if c == nil || c.client == nil {
		return
	}
	c.client.SetWithTTL(shortcode, link, linkCost(link), c.ttl)
}

// Delete removes a shortcode from the cache.
func (c *Cache) Delete(shortcode string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(shortcode)
}

// Close cleanly shuts down the cache.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
		log.Info().Msg("Resolve cache closed")
	}
}

// linkCost estimates the memory footprint of a record for admission.
func linkCost(link model.ShortLink) int64 {
	return int64(256 + 64*len(link.Clicks))
}

// MetricsSnapshot is a point-in-time view of cache performance.
type MetricsSnapshot struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	KeysAdded   uint64  `json:"keys_added"`
	KeysEvicted uint64  `json:"keys_evicted"`
	HitRatio    float64 `json:"hit_ratio"`
	TTLSeconds  int     `json:"ttl_seconds"`
}

// GetMetricsSnapshot returns current cache metrics.
func (c *Cache) GetMetricsSnapshot() MetricsSnapshot {
	if c == nil || c.client == nil || c.client.Metrics == nil {
		return MetricsSnapshot{}
	}

	m := c.client.Metrics
	hits := m.Hits()
	misses := m.Misses()

	hitRatio := 0.0
	if total := hits + misses; total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		Hits:        hits,
		Misses:      misses,
		KeysAdded:   m.KeysAdded(),
		KeysEvicted: m.KeysEvicted(),
		HitRatio:    hitRatio,
		TTLSeconds:  int(c.ttl.Seconds()),
	}
}
