package domain

import (
	"time"
)

type Player struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

// PlayerAggregateStats is the running summary over all of a player's attempts
type PlayerAggregateStats struct {
	PlayerID int64

	TotalLevelsCompleted int
	TotalKilledEnemies   int
	TotalSolvedPuzzles   int
	TotalTimePlayed      string // HH:MM:SS
	TotalStars           int

	UpdatedAt time.Time
}

// AttemptRecord is a single recorded playthrough of one level
type AttemptRecord struct {
	ID       int64
	PlayerID int64
	LevelID  int64

	KilledEnemies int
	SolvedPuzzles int
	TimeSpent     string // HH:MM:SS
	Stars         int

	CreatedAt time.Time
}

type LevelMetadata struct {
	ID          int64
	Name        string
	BossOnLevel bool
	MaxStars    int
}
