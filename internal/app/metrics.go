package app

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type appMetricsCollection struct {
	achievementsUnlocked    metric.Int64Counter
	unparseableAchievements metric.Int64Counter
	checkAndUnlockDuration  metric.Float64Histogram
}

var metrics appMetricsCollection

func init() {
	const name = "game-progress/app"
	meter := otel.Meter(name)

	achievementsUnlocked, err := meter.Int64Counter(
		"app/achievements_unlocked",
		metric.WithDescription("Total number of achievements unlocked"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create achievements unlocked metric: %w", err))
	}

	unparseableAchievements, err := meter.Int64Counter(
		"app/unparseable_achievements",
		metric.WithDescription("Achievements skipped because no unlock rule could be derived"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create unparseable achievements metric: %w", err))
	}

	checkAndUnlockDuration, err := meter.Float64Histogram(
		"app/check_and_unlock_duration_seconds",
		metric.WithDescription("Processing time for one achievement check pass"),
		metric.WithUnit("s"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create check and unlock duration metric: %w", err))
	}

	metrics = appMetricsCollection{
		achievementsUnlocked:    achievementsUnlocked,
		unparseableAchievements: unparseableAchievements,
		checkAndUnlockDuration:  checkAndUnlockDuration,
	}
}
