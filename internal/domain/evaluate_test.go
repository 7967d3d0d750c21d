package domain_test

import (
	"testing"
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCondition(t *testing.T) {
	t.Parallel()

	const playerID = int64(1)
	const levelID = int64(4)
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	stats := domaintest.NewStatsBuilder(playerID).
		WithLevelsCompleted(5).
		WithKilledEnemies(50).
		WithSolvedPuzzles(8).
		WithTimePlayed("00:10:02").
		WithStars(12).
		BuildPtr()

	attempt := domaintest.NewAttemptBuilder(playerID, levelID, now).
		WithKilledEnemies(10).
		WithSolvedPuzzles(2).
		WithTimeSpent("00:00:45").
		WithStars(3).
		BuildPtr()

	bossLevel := domaintest.NewLevel(levelID, true)
	plainLevel := domaintest.NewLevel(levelID, false)

	full := domain.EvaluationInput{
		Stats:   stats,
		Attempt: attempt,
		LevelID: domaintest.Ptr(levelID),
		Level:   &bossLevel,
	}

	tests := []struct {
		name      string
		condition domain.ParsedCondition
		input     domain.EvaluationInput
		expected  bool
	}{
		{name: "total levels reached", condition: domain.NewCondition(domain.ConditionTotalLevels, 5), input: full, expected: true},
		{name: "total levels not reached", condition: domain.NewCondition(domain.ConditionTotalLevels, 6), input: full, expected: false},
		{name: "total levels without stats", condition: domain.NewCondition(domain.ConditionTotalLevels, 1), input: domain.EvaluationInput{Attempt: attempt}, expected: false},
		{name: "total levels zero without stats", condition: domain.NewCondition(domain.ConditionTotalLevels, 0), input: domain.EvaluationInput{}, expected: false},

		{name: "total enemies reached", condition: domain.NewCondition(domain.ConditionTotalEnemies, 50), input: full, expected: true},
		{name: "total enemies not reached", condition: domain.NewCondition(domain.ConditionTotalEnemies, 51), input: full, expected: false},
		{name: "total enemies without stats", condition: domain.NewCondition(domain.ConditionTotalEnemies, 1), input: domain.EvaluationInput{}, expected: false},

		{name: "total puzzles reached", condition: domain.NewCondition(domain.ConditionTotalPuzzles, 8), input: full, expected: true},
		{name: "total puzzles not reached", condition: domain.NewCondition(domain.ConditionTotalPuzzles, 9), input: full, expected: false},

		// 00:10:02 rounds up to 11 minutes
		{name: "total time rounded up", condition: domain.NewCondition(domain.ConditionTotalTime, 11), input: full, expected: true},
		{name: "total time not reached", condition: domain.NewCondition(domain.ConditionTotalTime, 12), input: full, expected: false},
		{name: "total time without stats", condition: domain.NewCondition(domain.ConditionTotalTime, 0), input: domain.EvaluationInput{}, expected: false},

		{name: "level enemies reached", condition: domain.NewCondition(domain.ConditionLevelEnemies, 10), input: full, expected: true},
		{name: "level enemies not reached", condition: domain.NewCondition(domain.ConditionLevelEnemies, 11), input: full, expected: false},
		{name: "level enemies without attempt", condition: domain.NewCondition(domain.ConditionLevelEnemies, 1), input: domain.EvaluationInput{Stats: stats}, expected: false},

		{name: "level puzzles reached", condition: domain.NewCondition(domain.ConditionLevelPuzzles, 2), input: full, expected: true},
		{name: "level puzzles not reached", condition: domain.NewCondition(domain.ConditionLevelPuzzles, 3), input: full, expected: false},

		{name: "level time under limit", condition: domain.NewCondition(domain.ConditionLevelTime, 60), input: full, expected: true},
		{name: "level time at limit", condition: domain.NewCondition(domain.ConditionLevelTime, 45), input: full, expected: true},
		{name: "level time over limit", condition: domain.NewCondition(domain.ConditionLevelTime, 30), input: full, expected: false},
		{name: "level time without attempt", condition: domain.NewCondition(domain.ConditionLevelTime, 60), input: domain.EvaluationInput{Stats: stats}, expected: false},

		{name: "specific level matches", condition: domain.NewCondition(domain.ConditionSpecificLevel, 4), input: full, expected: true},
		{name: "specific level differs", condition: domain.NewCondition(domain.ConditionSpecificLevel, 5), input: full, expected: false},
		{name: "specific level without level", condition: domain.NewCondition(domain.ConditionSpecificLevel, 4), input: domain.EvaluationInput{Stats: stats, Attempt: attempt}, expected: false},

		{name: "defeat boss on boss level", condition: domain.ParsedCondition{Kind: domain.ConditionDefeatBoss}, input: full, expected: true},
		{
			name:      "defeat boss on level without boss",
			condition: domain.ParsedCondition{Kind: domain.ConditionDefeatBoss},
			input:     domain.EvaluationInput{Stats: stats, Attempt: attempt, LevelID: domaintest.Ptr(levelID), Level: &plainLevel},
			expected:  false,
		},
		{
			name:      "defeat boss without attempt",
			condition: domain.ParsedCondition{Kind: domain.ConditionDefeatBoss},
			input:     domain.EvaluationInput{Stats: stats, LevelID: domaintest.Ptr(levelID), Level: &bossLevel},
			expected:  false,
		},
		{
			name:      "defeat boss without level metadata",
			condition: domain.ParsedCondition{Kind: domain.ConditionDefeatBoss},
			input:     domain.EvaluationInput{Stats: stats, Attempt: attempt, LevelID: domaintest.Ptr(levelID)},
			expected:  false,
		},
		{
			name:      "defeat boss with metadata for another level",
			condition: domain.ParsedCondition{Kind: domain.ConditionDefeatBoss},
			input:     domain.EvaluationInput{Stats: stats, Attempt: attempt, LevelID: domaintest.Ptr(levelID + 1), Level: &bossLevel},
			expected:  false,
		},
		{
			name:      "defeat boss ignores required value",
			condition: domain.NewCondition(domain.ConditionDefeatBoss, 1000),
			input:     full,
			expected:  true,
		},

		{name: "total stars reached", condition: domain.NewCondition(domain.ConditionTotalStars, 12), input: full, expected: true},
		{name: "total stars not reached", condition: domain.NewCondition(domain.ConditionTotalStars, 13), input: full, expected: false},

		{name: "level stars reached", condition: domain.NewCondition(domain.ConditionLevelStars, 3), input: full, expected: true},
		{name: "level stars not reached", condition: domain.NewCondition(domain.ConditionLevelStars, 4), input: full, expected: false},

		{name: "missing required value", condition: domain.ParsedCondition{Kind: domain.ConditionTotalStars}, input: full, expected: false},
		{name: "unknown kind", condition: domain.NewCondition(domain.ConditionKind("WIN_GAMES"), 0), input: full, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, domain.EvaluateCondition(tt.condition, tt.input))
		})
	}
}

func TestEvaluateConditionCoversAllKinds(t *testing.T) {
	t.Parallel()

	// With no input at all, every kind fails closed
	for _, kind := range domain.ConditionKinds() {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			require.False(t, domain.EvaluateCondition(domain.NewCondition(kind, 0), domain.EvaluationInput{}))
		})
	}
}
