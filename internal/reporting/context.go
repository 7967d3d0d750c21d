package reporting

import (
	"context"
	"maps"
	"strconv"
	"time"
)

type reportingMetaContextKey struct{}

// ReportingMeta is the event context attached to every Sentry report made from a context
type ReportingMeta struct {
	tags      map[string]string
	extras    map[string]string
	playerID  string
	startedAt time.Time
}

func (m ReportingMeta) clone() ReportingMeta {
	m.tags = maps.Clone(m.tags)
	m.extras = maps.Clone(m.extras)
	if m.tags == nil {
		m.tags = make(map[string]string)
	}
	if m.extras == nil {
		m.extras = make(map[string]string)
	}
	return m
}

// MetaFromContext returns a copy of the meta stored in ctx, safe to modify
func MetaFromContext(ctx context.Context) ReportingMeta {
	meta, _ := ctx.Value(reportingMetaContextKey{}).(ReportingMeta)
	return meta.clone()
}

func updateMeta(ctx context.Context, update func(meta *ReportingMeta)) context.Context {
	meta := MetaFromContext(ctx)
	update(&meta)
	return context.WithValue(ctx, reportingMetaContextKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		meta.startedAt = startedAt
	})
}

func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.extras, extras)
	})
}

func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		maps.Copy(meta.tags, tags)
	})
}

// SetPlayerIDInContext makes the player the Sentry user of any event reported from ctx
func SetPlayerIDInContext(ctx context.Context, playerID int64) context.Context {
	return updateMeta(ctx, func(meta *ReportingMeta) {
		meta.playerID = strconv.FormatInt(playerID, 10)
	})
}
