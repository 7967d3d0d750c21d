package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const claimWaitInterval = 20 * time.Millisecond

type ttlCacheEntry[T any] struct {
	data  T
	valid bool
}

type ttlCache[T any] struct {
	cacheName string
	entries   *ttlcache.Cache[string, ttlCacheEntry[T]]
}

func (c *ttlCache[T]) name() string {
	return c.cacheName
}

func (c *ttlCache[T]) getOrClaim(key string) hitResult[T] {
	item, existed := c.entries.GetOrSet(key, ttlCacheEntry[T]{})
	entry := item.Value()

	return hitResult[T]{
		data:    entry.data,
		valid:   entry.valid,
		claimed: !existed,
	}
}

func (c *ttlCache[T]) set(key string, data T) {
	c.entries.Set(key, ttlCacheEntry[T]{data: data, valid: true}, ttlcache.DefaultTTL)
}

func (c *ttlCache[T]) delete(key string) {
	c.entries.Delete(key)
}

func (c *ttlCache[T]) wait() {
	time.Sleep(claimWaitInterval)
}

// NewTTLCache returns a cache whose entries expire ttl after being set.
// The returned function stops the background expiry loop.
func NewTTLCache[T any](name string, ttl time.Duration) (Cache[T], func()) {
	entries := ttlcache.New[string, ttlCacheEntry[T]](
		ttlcache.WithTTL[string, ttlCacheEntry[T]](ttl),
		ttlcache.WithDisableTouchOnHit[string, ttlCacheEntry[T]](),
	)
	entries.OnEviction(func(ctx context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, ttlCacheEntry[T]]) {
		if reason == ttlcache.EvictionReasonExpired {
			metrics.expirations.Add(ctx, 1)
		}
	})
	go entries.Start()

	return &ttlCache[T]{cacheName: name, entries: entries}, entries.Stop
}
