package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/reporting"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type achievementCatalog interface {
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
}

type unlockRecordStore interface {
	ListUnlockedAchievementIDs(ctx context.Context, playerID int64) (map[int64]struct{}, error)
	CreateUnlockRecord(ctx context.Context, playerID, achievementID int64, createdAt time.Time) (domain.UnlockRecord, error)
}

type playerFinder interface {
	FindPlayerByID(ctx context.Context, playerID int64) (domain.Player, error)
}

type statisticsFinder interface {
	FindStatistics(ctx context.Context, playerID int64) (*domain.PlayerAggregateStats, error)
}

type levelFinder interface {
	FindLevelByID(ctx context.Context, levelID int64) (domain.LevelMetadata, error)
}

// CheckAndUnlock evaluates every achievement the player does not hold yet and records the
// ones whose rule is satisfied. It returns the newly unlocked achievements in catalog order.
// levelID and attempt are nil when the pass is not triggered by a fresh attempt.
type CheckAndUnlock func(ctx context.Context, playerID int64, levelID *int64, attempt *domain.AttemptRecord) ([]domain.Achievement, error)

func BuildCheckAndUnlock(
	players playerFinder,
	statistics statisticsFinder,
	catalog achievementCatalog,
	unlocks unlockRecordStore,
	levels levelFinder,
	nowFunc func() time.Time,
) CheckAndUnlock {
	return func(ctx context.Context, playerID int64, levelID *int64, attempt *domain.AttemptRecord) ([]domain.Achievement, error) {
		start := time.Now()
		defer func() {
			metrics.checkAndUnlockDuration.Record(ctx, time.Since(start).Seconds())
		}()

		ctx = reporting.SetPlayerIDInContext(ctx, playerID)
		ctx = logging.AddMetaToContext(ctx, slog.Int64("playerID", playerID))
		logger := logging.FromContext(ctx)

		_, err := players.FindPlayerByID(ctx, playerID)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to find player %d: %w", playerID, err)
		}

		stats, err := statistics.FindStatistics(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to find statistics for player %d: %w", playerID, err)
		}

		achievements, err := catalog.ListAchievements(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list achievements: %w", err)
		}

		unlocked, err := unlocks.ListUnlockedAchievementIDs(ctx, playerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list unlocked achievements for player %d: %w", playerID, err)
		}

		input := domain.EvaluationInput{
			Stats:   stats,
			Attempt: attempt,
			LevelID: levelID,
		}
		levelLoaded := false

		newlyUnlocked := []domain.Achievement{}
		for _, achievement := range achievements {
			if _, ok := unlocked[achievement.ID]; ok {
				continue
			}

			condition, ok := achievement.Condition()
			if !ok {
				logger.WarnContext(
					ctx,
					"Skipping achievement without a valid unlock rule",
					"achievementID", achievement.ID,
					"description", achievement.Description,
				)
				metrics.unparseableAchievements.Add(ctx, 1)
				continue
			}

			if condition.Kind == domain.ConditionDefeatBoss && !levelLoaded {
				input.Level = loadLevel(ctx, levels, levelID, attempt)
				levelLoaded = true
			}

			if !domain.EvaluateCondition(condition, input) {
				continue
			}

			_, err := unlocks.CreateUnlockRecord(ctx, playerID, achievement.ID, nowFunc())
			if errors.Is(err, domain.ErrAchievementAlreadyUnlocked) {
				logger.InfoContext(
					ctx,
					"Achievement was unlocked concurrently",
					"achievementID", achievement.ID,
				)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to unlock achievement %d for player %d: %w", achievement.ID, playerID, err)
			}

			logger.InfoContext(
				ctx,
				"Unlocked achievement",
				"achievementID", achievement.ID,
				"condition", condition.String(),
			)
			metrics.achievementsUnlocked.Add(
				ctx, 1,
				metric.WithAttributes(attribute.String("condition_kind", string(condition.Kind))),
			)
			newlyUnlocked = append(newlyUnlocked, achievement)
		}

		return newlyUnlocked, nil
	}
}

// loadLevel returns nil when there is no level to look up or it can not be read
func loadLevel(ctx context.Context, levels levelFinder, levelID *int64, attempt *domain.AttemptRecord) *domain.LevelMetadata {
	if levelID == nil || attempt == nil {
		return nil
	}

	level, err := levels.FindLevelByID(ctx, *levelID)
	if errors.Is(err, domain.ErrLevelNotFound) {
		return nil
	}
	if err != nil {
		// Already reported by the repository
		logging.FromContext(ctx).WarnContext(ctx, "Failed to load level metadata", "levelID", *levelID, "error", err.Error())
		return nil
	}

	return &level
}
