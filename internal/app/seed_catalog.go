package app

import (
	"context"
	"fmt"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
)

type levelStore interface {
	StoreLevel(ctx context.Context, level domain.LevelMetadata) error
}

type achievementStore interface {
	StoreAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error)
}

type playerStore interface {
	StorePlayer(ctx context.Context, username string) (domain.Player, error)
}

type SeedSummary struct {
	Levels       int
	Achievements int
	Players      []domain.Player
	// Unparseable achievements are stored but can never unlock
	Unparseable int
}

// SeedCatalog upserts levels, achievements and players. It is safe to run repeatedly.
type SeedCatalog func(ctx context.Context, catalog domain.Catalog) (SeedSummary, error)

func BuildSeedCatalog(levels levelStore, achievements achievementStore, players playerStore) SeedCatalog {
	return func(ctx context.Context, catalog domain.Catalog) (SeedSummary, error) {
		logger := logging.FromContext(ctx)
		summary := SeedSummary{}

		for _, level := range catalog.Levels {
			if err := levels.StoreLevel(ctx, level); err != nil {
				return summary, fmt.Errorf("failed to store level %d: %w", level.ID, err)
			}
			summary.Levels++
		}

		for _, achievement := range catalog.Achievements {
			if _, ok := achievement.Condition(); !ok {
				logger.WarnContext(
					ctx,
					"Achievement has no valid unlock rule and will never unlock",
					"name", achievement.Name,
					"description", achievement.Description,
				)
				summary.Unparseable++
			}

			if _, err := achievements.StoreAchievement(ctx, achievement); err != nil {
				return summary, fmt.Errorf("failed to store achievement %q: %w", achievement.Name, err)
			}
			summary.Achievements++
		}

		for _, username := range catalog.Players {
			player, err := players.StorePlayer(ctx, username)
			if err != nil {
				return summary, fmt.Errorf("failed to store player %q: %w", username, err)
			}
			summary.Players = append(summary.Players, player)
		}

		logger.InfoContext(
			ctx,
			"Seeded catalog",
			"levels", summary.Levels,
			"achievements", summary.Achievements,
			"players", len(summary.Players),
			"unparseable", summary.Unparseable,
		)

		return summary, nil
	}
}
