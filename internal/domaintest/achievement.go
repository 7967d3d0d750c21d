package domaintest

import (
	"strconv"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
)

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}

// NewAchievement builds a catalog entry whose rule is parsed from its description
func NewAchievement(id int64, description string) domain.Achievement {
	return domain.Achievement{
		ID:          id,
		Name:        "Achievement " + itoa(id),
		Description: description,
	}
}

// NewAchievementWithRule builds a catalog entry with a structured rule
func NewAchievementWithRule(id int64, description string, rule domain.ParsedCondition) domain.Achievement {
	achievement := NewAchievement(id, description)
	achievement.Rule = &rule
	return achievement
}

func Ptr[T any](v T) *T {
	return &v
}
