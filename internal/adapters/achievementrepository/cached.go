package achievementrepository

import (
	"context"
	"slices"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/cache"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
)

const catalogCacheKey = "catalog"

type catalogRepository interface {
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
	StoreAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error)
}

// CachedCatalog keeps the achievement catalog in a cache. Storing an achievement invalidates it.
type CachedCatalog struct {
	repo  catalogRepository
	cache cache.Cache[[]domain.Achievement]
}

func NewCachedCatalog(repo catalogRepository, catalogCache cache.Cache[[]domain.Achievement]) *CachedCatalog {
	return &CachedCatalog{
		repo:  repo,
		cache: catalogCache,
	}
}

func (c *CachedCatalog) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	achievements, err := cache.GetOrCreate(ctx, c.cache, catalogCacheKey, func() ([]domain.Achievement, error) {
		return c.repo.ListAchievements(ctx)
	})
	if err != nil {
		return nil, err
	}
	// Callers may reorder or append
	return slices.Clone(achievements), nil
}

func (c *CachedCatalog) StoreAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error) {
	stored, err := c.repo.StoreAchievement(ctx, achievement)
	cache.Invalidate(c.cache, catalogCacheKey)
	return stored, err
}
