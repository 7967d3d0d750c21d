package cache

type hitResult[T any] struct {
	data    T
	valid   bool
	claimed bool
}

// Cache is a keyed store where a missing entry is claimed by the first caller to look it up.
// Other callers wait for the claimant to set or delete the entry.
type Cache[T any] interface {
	name() string
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}

// Invalidate drops the entry for key so the next lookup recreates it
func Invalidate[T any](cache Cache[T], key string) {
	cache.delete(key)
}
