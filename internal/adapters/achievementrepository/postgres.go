package achievementrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db     *sqlx.DB
	schema string

	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("game-progress/achievementrepository/postgres")

	return &Postgres{
		db:     db,
		schema: schema,

		tracer: tracer,
	}
}

type dbAchievement struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	ConditionKind sql.NullString `db:"condition_kind"`
	RequiredValue sql.NullInt32  `db:"required_value"`
}

func (e dbAchievement) toDomain() domain.Achievement {
	achievement := domain.Achievement{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
	}
	if e.ConditionKind.Valid {
		rule := domain.ParsedCondition{Kind: domain.ConditionKind(e.ConditionKind.String)}
		if e.RequiredValue.Valid {
			requiredValue := int(e.RequiredValue.Int32)
			rule.RequiredValue = &requiredValue
		}
		achievement.Rule = &rule
	}
	return achievement
}

func fromDomain(achievement domain.Achievement) dbAchievement {
	entry := dbAchievement{
		ID:          achievement.ID,
		Name:        achievement.Name,
		Description: achievement.Description,
	}
	if achievement.Rule != nil {
		entry.ConditionKind = sql.NullString{String: string(achievement.Rule.Kind), Valid: true}
		if achievement.Rule.RequiredValue != nil {
			entry.RequiredValue = sql.NullInt32{Int32: int32(*achievement.Rule.RequiredValue), Valid: true}
		}
	}
	return entry
}

type dbUnlockRecord struct {
	PlayerID      int64     `db:"player_id"`
	AchievementID int64     `db:"achievement_id"`
	CreatedAt     time.Time `db:"created_at"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ListAchievements returns the whole catalog ordered by id
func (p *Postgres) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListAchievements")
	defer span.End()

	var entries []dbAchievement
	err := p.db.SelectContext(ctx, &entries, fmt.Sprintf(`SELECT
		id, name, description, condition_kind, required_value
		FROM %s.achievements
		ORDER BY id ASC`,
		pq.QuoteIdentifier(p.schema),
	))
	if err != nil {
		err := fmt.Errorf("failed to list achievements: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	achievements := make([]domain.Achievement, 0, len(entries))
	for _, entry := range entries {
		achievements = append(achievements, entry.toDomain())
	}

	return achievements, nil
}

// StoreAchievement inserts or updates the achievement with the same name and returns it with its id
func (p *Postgres) StoreAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreAchievement")
	defer span.End()

	if achievement.Name == "" {
		err := fmt.Errorf("achievement name must not be empty")
		reporting.Report(ctx, err)
		return domain.Achievement{}, err
	}

	entry := fromDomain(achievement)

	var stored dbAchievement
	err := p.db.GetContext(ctx, &stored, fmt.Sprintf(`INSERT INTO %s.achievements
		(name, description, condition_kind, required_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name)
		DO UPDATE SET
			description = EXCLUDED.description,
			condition_kind = EXCLUDED.condition_kind,
			required_value = EXCLUDED.required_value
		RETURNING id, name, description, condition_kind, required_value`,
		pq.QuoteIdentifier(p.schema),
	),
		entry.Name,
		entry.Description,
		entry.ConditionKind,
		entry.RequiredValue,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert achievement: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"name": achievement.Name,
		})
		return domain.Achievement{}, err
	}

	return stored.toDomain(), nil
}

func (p *Postgres) ListUnlockedAchievementIDs(ctx context.Context, playerID int64) (map[int64]struct{}, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListUnlockedAchievementIDs")
	defer span.End()

	var ids []int64
	err := p.db.SelectContext(ctx, &ids, fmt.Sprintf(`SELECT
		achievement_id
		FROM %s.player_achievements
		WHERE player_id = $1`,
		pq.QuoteIdentifier(p.schema),
	),
		playerID,
	)
	if err != nil {
		err := fmt.Errorf("failed to list unlocked achievements for player %d: %w", playerID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": formatID(playerID),
		})
		return nil, err
	}

	unlocked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unlocked[id] = struct{}{}
	}

	return unlocked, nil
}

// CreateUnlockRecord stores the unlock, returning domain.ErrAchievementAlreadyUnlocked
// if the player already holds the achievement
func (p *Postgres) CreateUnlockRecord(ctx context.Context, playerID, achievementID int64, createdAt time.Time) (domain.UnlockRecord, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.CreateUnlockRecord")
	defer span.End()

	var entry dbUnlockRecord
	err := p.db.GetContext(ctx, &entry, fmt.Sprintf(`INSERT INTO %s.player_achievements
		(player_id, achievement_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, achievement_id) DO NOTHING
		RETURNING player_id, achievement_id, created_at`,
		pq.QuoteIdentifier(p.schema),
	),
		playerID,
		achievementID,
		createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflicting row, nothing was inserted
			return domain.UnlockRecord{}, domain.ErrAchievementAlreadyUnlocked
		}
		err := fmt.Errorf("failed to unlock achievement %d for player %d: %w", achievementID, playerID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID":      formatID(playerID),
			"achievementID": formatID(achievementID),
			"createdAt":     createdAt.Format(time.RFC3339),
		})
		return domain.UnlockRecord{}, err
	}

	return domain.UnlockRecord{
		PlayerID:      entry.PlayerID,
		AchievementID: entry.AchievementID,
		CreatedAt:     entry.CreatedAt,
	}, nil
}
