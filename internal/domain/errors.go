package domain

import "errors"

var (
	ErrPlayerNotFound             = errors.New("player not found")
	ErrLevelNotFound              = errors.New("level not found")
	ErrAchievementAlreadyUnlocked = errors.New("achievement already unlocked")
	ErrInvalidAttempt             = errors.New("invalid attempt")
)
