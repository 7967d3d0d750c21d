package domain

import (
	"fmt"
	"time"
)

// ConditionKind is the category of an achievement unlock rule
type ConditionKind string

const (
	ConditionTotalLevels   ConditionKind = "TOTAL_LEVELS"
	ConditionTotalEnemies  ConditionKind = "TOTAL_ENEMIES"
	ConditionTotalPuzzles  ConditionKind = "TOTAL_PUZZLES"
	ConditionTotalTime     ConditionKind = "TOTAL_TIME"
	ConditionLevelEnemies  ConditionKind = "LEVEL_ENEMIES"
	ConditionLevelPuzzles  ConditionKind = "LEVEL_PUZZLES"
	ConditionLevelTime     ConditionKind = "LEVEL_TIME"
	ConditionSpecificLevel ConditionKind = "SPECIFIC_LEVEL"
	ConditionDefeatBoss    ConditionKind = "DEFEAT_BOSS"
	ConditionTotalStars    ConditionKind = "TOTAL_STARS"
	ConditionLevelStars    ConditionKind = "LEVEL_STARS"
)

var conditionKinds = []ConditionKind{
	ConditionTotalLevels,
	ConditionTotalEnemies,
	ConditionTotalPuzzles,
	ConditionTotalTime,
	ConditionLevelEnemies,
	ConditionLevelPuzzles,
	ConditionLevelTime,
	ConditionSpecificLevel,
	ConditionDefeatBoss,
	ConditionTotalStars,
	ConditionLevelStars,
}

// ConditionKinds returns every known condition kind in declaration order
func ConditionKinds() []ConditionKind {
	kinds := make([]ConditionKind, len(conditionKinds))
	copy(kinds, conditionKinds)
	return kinds
}

func (k ConditionKind) Valid() bool {
	for _, kind := range conditionKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// RequiresValue reports whether conditions of this kind carry a threshold
func (k ConditionKind) RequiresValue() bool {
	return k != ConditionDefeatBoss
}

// ParsedCondition is a typed unlock rule. RequiredValue is nil only for DEFEAT_BOSS.
type ParsedCondition struct {
	Kind          ConditionKind
	RequiredValue *int
}

func NewCondition(kind ConditionKind, requiredValue int) ParsedCondition {
	return ParsedCondition{Kind: kind, RequiredValue: &requiredValue}
}

func (c ParsedCondition) String() string {
	if c.RequiredValue == nil {
		return string(c.Kind)
	}
	return fmt.Sprintf("%s{%d}", c.Kind, *c.RequiredValue)
}

type Achievement struct {
	ID          int64
	Name        string
	Description string

	// Rule is the structured unlock rule. When nil the rule is parsed from Description.
	Rule *ParsedCondition
}

// Condition returns the unlock rule of the achievement, preferring the structured rule
func (a Achievement) Condition() (ParsedCondition, bool) {
	if a.Rule != nil {
		if !a.Rule.Kind.Valid() {
			return ParsedCondition{}, false
		}
		if a.Rule.Kind.RequiresValue() && a.Rule.RequiredValue == nil {
			return ParsedCondition{}, false
		}
		return *a.Rule, true
	}
	return ParseCondition(a.Description)
}

type UnlockRecord struct {
	PlayerID      int64
	AchievementID int64
	CreatedAt     time.Time
}

// Catalog is a set of definitions to load into storage
type Catalog struct {
	Levels       []LevelMetadata
	Achievements []Achievement
	Players      []string
}
