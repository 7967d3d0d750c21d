package domain

import "time"

// AggregateAttempts computes a player's running statistics from all of their attempts.
//
// Stars count the best attempt per level only. Malformed time entries count as zero.
func AggregateAttempts(playerID int64, attempts []AttemptRecord, updatedAt time.Time) PlayerAggregateStats {
	bestStars := make(map[int64]int)
	totalSeconds := 0

	stats := PlayerAggregateStats{
		PlayerID:  playerID,
		UpdatedAt: updatedAt,
	}

	for _, attempt := range attempts {
		stats.TotalKilledEnemies += attempt.KilledEnemies
		stats.TotalSolvedPuzzles += attempt.SolvedPuzzles
		totalSeconds += SecondsOf(attempt.TimeSpent)

		best, seen := bestStars[attempt.LevelID]
		if !seen || attempt.Stars > best {
			bestStars[attempt.LevelID] = attempt.Stars
		}
	}

	stats.TotalLevelsCompleted = len(bestStars)
	for _, stars := range bestStars {
		stats.TotalStars += stars
	}
	stats.TotalTimePlayed = EncodeDuration(totalSeconds)

	return stats
}

// CapStars clamps the stars of an attempt to what the level can award
func CapStars(stars int, level LevelMetadata) int {
	if stars < 0 {
		return 0
	}
	if stars > level.MaxStars {
		return level.MaxStars
	}
	return stars
}
