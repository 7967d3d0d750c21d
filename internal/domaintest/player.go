package domaintest

import (
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
)

type statsBuilder struct {
	stats *domain.PlayerAggregateStats
}

func (sb *statsBuilder) WithLevelsCompleted(levels int) *statsBuilder {
	sb.stats.TotalLevelsCompleted = levels
	return sb
}

func (sb *statsBuilder) WithKilledEnemies(enemies int) *statsBuilder {
	sb.stats.TotalKilledEnemies = enemies
	return sb
}

func (sb *statsBuilder) WithSolvedPuzzles(puzzles int) *statsBuilder {
	sb.stats.TotalSolvedPuzzles = puzzles
	return sb
}

func (sb *statsBuilder) WithTimePlayed(timePlayed string) *statsBuilder {
	sb.stats.TotalTimePlayed = timePlayed
	return sb
}

func (sb *statsBuilder) WithStars(stars int) *statsBuilder {
	sb.stats.TotalStars = stars
	return sb
}

func (sb *statsBuilder) Build() domain.PlayerAggregateStats {
	return *sb.stats
}

func (sb *statsBuilder) BuildPtr() *domain.PlayerAggregateStats {
	// Make a copy, so further mutations to the builder don't affect the returned stats
	stats := sb.Build()
	return &stats
}

func NewStatsBuilder(playerID int64) *statsBuilder {
	return &statsBuilder{
		stats: &domain.PlayerAggregateStats{
			PlayerID:        playerID,
			TotalTimePlayed: "00:00:00",
		},
	}
}

type attemptBuilder struct {
	attempt *domain.AttemptRecord
}

func (ab *attemptBuilder) WithKilledEnemies(enemies int) *attemptBuilder {
	ab.attempt.KilledEnemies = enemies
	return ab
}

func (ab *attemptBuilder) WithSolvedPuzzles(puzzles int) *attemptBuilder {
	ab.attempt.SolvedPuzzles = puzzles
	return ab
}

func (ab *attemptBuilder) WithTimeSpent(timeSpent string) *attemptBuilder {
	ab.attempt.TimeSpent = timeSpent
	return ab
}

func (ab *attemptBuilder) WithStars(stars int) *attemptBuilder {
	ab.attempt.Stars = stars
	return ab
}

func (ab *attemptBuilder) WithID(id int64) *attemptBuilder {
	ab.attempt.ID = id
	return ab
}

func (ab *attemptBuilder) Build() domain.AttemptRecord {
	return *ab.attempt
}

func (ab *attemptBuilder) BuildPtr() *domain.AttemptRecord {
	attempt := ab.Build()
	return &attempt
}

func NewAttemptBuilder(playerID, levelID int64, createdAt time.Time) *attemptBuilder {
	return &attemptBuilder{
		attempt: &domain.AttemptRecord{
			PlayerID:  playerID,
			LevelID:   levelID,
			TimeSpent: "00:01:00",
			Stars:     1,
			CreatedAt: createdAt,
		},
	}
}

func NewLevel(id int64, bossOnLevel bool) domain.LevelMetadata {
	return domain.LevelMetadata{
		ID:          id,
		Name:        "Level " + itoa(id),
		BossOnLevel: bossOnLevel,
		MaxStars:    3,
	}
}
