package cache

import (
	"context"
	"fmt"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
)

// GetOrCreate returns the cached value for key, calling create on a miss.
// Concurrent callers for the same key wait for a single create call.
func GetOrCreate[T any](ctx context.Context, cache Cache[T], key string, create func() (T, error)) (T, error) {
	var empty T
	logger := logging.FromContext(ctx).With("cache", cache.name(), "key", key)

	for {
		result := cache.getOrClaim(key)

		if result.claimed {
			recordLookup(ctx, cache.name(), "miss")
			logger.DebugContext(ctx, "Cache miss")

			data, err := create()
			if err != nil {
				// Release the claim so the next caller retries
				cache.delete(key)
				return empty, fmt.Errorf("failed to create %s cache entry: %w", cache.name(), err)
			}
			cache.set(key, data)
			return data, nil
		}

		if result.valid {
			recordLookup(ctx, cache.name(), "hit")
			return result.data, nil
		}

		if err := ctx.Err(); err != nil {
			return empty, fmt.Errorf("gave up waiting for %s cache entry: %w", cache.name(), err)
		}
		cache.wait()
	}
}
