package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/reporting"
)

type attemptRepository interface {
	StoreAttempt(ctx context.Context, attempt domain.AttemptRecord) (domain.AttemptRecord, error)
	ListAttempts(ctx context.Context, playerID int64) ([]domain.AttemptRecord, error)
}

type statisticsStore interface {
	StoreStatistics(ctx context.Context, stats domain.PlayerAggregateStats) error
}

type RecordedAttempt struct {
	Attempt  domain.AttemptRecord
	Stats    domain.PlayerAggregateStats
	Unlocked []domain.Achievement
}

// RecordAttempt stores a finished level attempt, refreshes the player's aggregate statistics
// and unlocks the achievements the attempt earned
type RecordAttempt func(ctx context.Context, attempt domain.AttemptRecord) (RecordedAttempt, error)

func BuildRecordAttempt(
	players playerFinder,
	levels levelFinder,
	attempts attemptRepository,
	statistics statisticsStore,
	checkAndUnlock CheckAndUnlock,
	nowFunc func() time.Time,
) RecordAttempt {
	return func(ctx context.Context, attempt domain.AttemptRecord) (RecordedAttempt, error) {
		ctx = reporting.SetPlayerIDInContext(ctx, attempt.PlayerID)
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"levelID": strconv.FormatInt(attempt.LevelID, 10),
		})
		ctx = logging.AddMetaToContext(ctx, slog.Int64("playerID", attempt.PlayerID), slog.Int64("levelID", attempt.LevelID))

		_, err := players.FindPlayerByID(ctx, attempt.PlayerID)
		if err != nil {
			// NOTE: Repository implementations handle their own error reporting
			return RecordedAttempt{}, fmt.Errorf("failed to find player %d: %w", attempt.PlayerID, err)
		}

		level, err := levels.FindLevelByID(ctx, attempt.LevelID)
		if err != nil {
			return RecordedAttempt{}, fmt.Errorf("failed to find level %d: %w", attempt.LevelID, err)
		}

		if _, ok := domain.ParseDuration(attempt.TimeSpent); !ok {
			return RecordedAttempt{}, fmt.Errorf("%w: time spent %q is not HH:MM:SS", domain.ErrInvalidAttempt, attempt.TimeSpent)
		}
		if attempt.KilledEnemies < 0 || attempt.SolvedPuzzles < 0 {
			return RecordedAttempt{}, fmt.Errorf("%w: counts must not be negative", domain.ErrInvalidAttempt)
		}

		now := nowFunc()
		attempt.ID = 0
		attempt.Stars = domain.CapStars(attempt.Stars, level)
		if attempt.CreatedAt.IsZero() {
			attempt.CreatedAt = now
		}

		stored, err := attempts.StoreAttempt(ctx, attempt)
		if err != nil {
			return RecordedAttempt{}, fmt.Errorf("failed to store attempt: %w", err)
		}

		history, err := attempts.ListAttempts(ctx, attempt.PlayerID)
		if err != nil {
			return RecordedAttempt{}, fmt.Errorf("failed to list attempts: %w", err)
		}

		stats := domain.AggregateAttempts(attempt.PlayerID, history, now)
		err = statistics.StoreStatistics(ctx, stats)
		if err != nil {
			return RecordedAttempt{}, fmt.Errorf("failed to store statistics: %w", err)
		}

		unlocked, err := checkAndUnlock(ctx, attempt.PlayerID, &stored.LevelID, &stored)
		if err != nil {
			return RecordedAttempt{}, fmt.Errorf("failed to check achievements: %w", err)
		}

		logging.FromContext(ctx).InfoContext(
			ctx,
			"Recorded attempt",
			"attemptID", stored.ID,
			"unlocked", len(unlocked),
		)

		return RecordedAttempt{
			Attempt:  stored,
			Stats:    stats,
			Unlocked: unlocked,
		}, nil
	}
}
