package domain

// EvaluationInput is the player state a condition is checked against.
// Every field is optional. A condition that needs a missing field is not satisfied.
type EvaluationInput struct {
	Stats   *PlayerAggregateStats
	Attempt *AttemptRecord

	// The level targeted by the attempt that triggered the evaluation
	LevelID *int64
	// Metadata for LevelID, if known
	Level *LevelMetadata
}

type conditionEvaluator func(required int, input EvaluationInput) bool

var conditionEvaluators = map[ConditionKind]conditionEvaluator{
	ConditionTotalLevels: func(required int, input EvaluationInput) bool {
		return input.Stats != nil && input.Stats.TotalLevelsCompleted >= required
	},
	ConditionTotalEnemies: func(required int, input EvaluationInput) bool {
		return input.Stats != nil && input.Stats.TotalKilledEnemies >= required
	},
	ConditionTotalPuzzles: func(required int, input EvaluationInput) bool {
		return input.Stats != nil && input.Stats.TotalSolvedPuzzles >= required
	},
	ConditionTotalTime: func(required int, input EvaluationInput) bool {
		return input.Stats != nil && MinutesRoundedUp(input.Stats.TotalTimePlayed) >= required
	},
	ConditionLevelEnemies: func(required int, input EvaluationInput) bool {
		return input.Attempt != nil && input.Attempt.KilledEnemies >= required
	},
	ConditionLevelPuzzles: func(required int, input EvaluationInput) bool {
		return input.Attempt != nil && input.Attempt.SolvedPuzzles >= required
	},
	ConditionLevelTime: func(required int, input EvaluationInput) bool {
		// Lower is better
		return input.Attempt != nil && SecondsOf(input.Attempt.TimeSpent) <= required
	},
	ConditionSpecificLevel: func(required int, input EvaluationInput) bool {
		return input.LevelID != nil && *input.LevelID == int64(required)
	},
	ConditionDefeatBoss: func(_ int, input EvaluationInput) bool {
		if input.LevelID == nil || input.Attempt == nil || input.Level == nil {
			return false
		}
		return input.Level.ID == *input.LevelID && input.Level.BossOnLevel
	},
	ConditionTotalStars: func(required int, input EvaluationInput) bool {
		return input.Stats != nil && input.Stats.TotalStars >= required
	},
	ConditionLevelStars: func(required int, input EvaluationInput) bool {
		return input.Attempt != nil && input.Attempt.Stars >= required
	},
}

// EvaluateCondition reports whether the condition is satisfied by the given player state
func EvaluateCondition(condition ParsedCondition, input EvaluationInput) bool {
	evaluator, ok := conditionEvaluators[condition.Kind]
	if !ok {
		return false
	}

	required := 0
	if condition.Kind.RequiresValue() {
		if condition.RequiredValue == nil {
			return false
		}
		required = *condition.RequiredValue
	}

	return evaluator(required, input)
}
