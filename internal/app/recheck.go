package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
)

type playerLister interface {
	ListPlayerIDs(ctx context.Context) ([]int64, error)
}

// limiter is satisfied by *rate.Limiter
type limiter interface {
	Wait(ctx context.Context) error
}

type RecheckSummary struct {
	Players  int
	Skipped  int
	Failed   int
	Unlocked int
}

// RecheckAchievements re-evaluates the totals-based achievements of every player,
// e.g. after new achievements have been added to the catalog
type RecheckAchievements func(ctx context.Context) (RecheckSummary, error)

func BuildRecheckAchievements(
	players playerLister,
	checkAndUnlock CheckAndUnlock,
	rateLimiter limiter,
) RecheckAchievements {
	return func(ctx context.Context) (RecheckSummary, error) {
		logger := logging.FromContext(ctx)

		ids, err := players.ListPlayerIDs(ctx)
		if err != nil {
			return RecheckSummary{}, fmt.Errorf("failed to list players: %w", err)
		}

		summary := RecheckSummary{}
		var errs []error
		for _, playerID := range ids {
			if err := rateLimiter.Wait(ctx); err != nil {
				errs = append(errs, fmt.Errorf("recheck stopped: %w", err))
				break
			}

			summary.Players++

			unlocked, err := checkAndUnlock(ctx, playerID, nil, nil)
			if errors.Is(err, domain.ErrPlayerNotFound) {
				logger.InfoContext(ctx, "Player disappeared during recheck", "playerID", playerID)
				summary.Skipped++
				continue
			}
			if err != nil {
				summary.Failed++
				errs = append(errs, fmt.Errorf("player %d: %w", playerID, err))
				if ctx.Err() != nil {
					break
				}
				continue
			}

			summary.Unlocked += len(unlocked)
		}

		logger.InfoContext(
			ctx,
			"Recheck finished",
			"players", summary.Players,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
			"unlocked", summary.Unlocked,
		)

		return summary, errors.Join(errs...)
	}
}
