package cache

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type cacheMetricsCollection struct {
	lookups     metric.Int64Counter
	expirations metric.Int64Counter
}

var metrics cacheMetricsCollection

func init() {
	const name = "game-progress/cache"
	meter := otel.Meter(name)

	lookups, err := meter.Int64Counter(
		"cache/lookups",
		metric.WithDescription("Cache lookups by cache and result (hit, miss)"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create cache lookups metric: %w", err))
	}

	expirations, err := meter.Int64Counter(
		"cache/expirations",
		metric.WithDescription("Cache entries dropped after their ttl"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create cache expirations metric: %w", err))
	}

	metrics = cacheMetricsCollection{
		lookups:     lookups,
		expirations: expirations,
	}
}

func recordLookup(ctx context.Context, cacheName, result string) {
	metrics.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", cacheName),
		attribute.String("result", result),
	))
}
