package levelrepository

import (
	"context"
	"strconv"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/cache"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
)

type levelRepository interface {
	FindLevelByID(ctx context.Context, levelID int64) (domain.LevelMetadata, error)
	StoreLevel(ctx context.Context, level domain.LevelMetadata) error
}

// Cached serves level lookups from a cache in front of another repository.
// Misses, including ErrLevelNotFound, are not cached.
type Cached struct {
	repo  levelRepository
	cache cache.Cache[domain.LevelMetadata]
}

func NewCached(repo levelRepository, levelCache cache.Cache[domain.LevelMetadata]) *Cached {
	return &Cached{
		repo:  repo,
		cache: levelCache,
	}
}

func (c *Cached) FindLevelByID(ctx context.Context, levelID int64) (domain.LevelMetadata, error) {
	return cache.GetOrCreate(ctx, c.cache, strconv.FormatInt(levelID, 10), func() (domain.LevelMetadata, error) {
		return c.repo.FindLevelByID(ctx, levelID)
	})
}

func (c *Cached) StoreLevel(ctx context.Context, level domain.LevelMetadata) error {
	err := c.repo.StoreLevel(ctx, level)
	cache.Invalidate(c.cache, strconv.FormatInt(level.ID, 10))
	return err
}
