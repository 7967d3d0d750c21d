package levelrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

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
	tracer := otel.Tracer("game-progress/levelrepository/postgres")

	return &Postgres{
		db:     db,
		schema: schema,

		tracer: tracer,
	}
}

type dbLevel struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	BossOnLevel bool   `db:"boss_on_level"`
	MaxStars    int    `db:"max_stars"`
}

func (p *Postgres) FindLevelByID(ctx context.Context, levelID int64) (domain.LevelMetadata, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.FindLevelByID")
	defer span.End()

	var entry dbLevel
	err := p.db.GetContext(ctx, &entry, fmt.Sprintf(`SELECT
		id, name, boss_on_level, max_stars
		FROM %s.levels
		WHERE id = $1`,
		pq.QuoteIdentifier(p.schema),
	),
		levelID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LevelMetadata{}, domain.ErrLevelNotFound
		}
		err := fmt.Errorf("failed to select level %d: %w", levelID, err)
		reporting.Report(ctx, err, map[string]string{
			"levelID": strconv.FormatInt(levelID, 10),
		})
		return domain.LevelMetadata{}, err
	}

	return domain.LevelMetadata{
		ID:          entry.ID,
		Name:        entry.Name,
		BossOnLevel: entry.BossOnLevel,
		MaxStars:    entry.MaxStars,
	}, nil
}

// StoreLevel inserts or replaces the metadata of a level
func (p *Postgres) StoreLevel(ctx context.Context, level domain.LevelMetadata) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreLevel")
	defer span.End()

	if level.MaxStars < 0 {
		err := fmt.Errorf("max stars must not be negative")
		reporting.Report(ctx, err, map[string]string{
			"levelID":  strconv.FormatInt(level.ID, 10),
			"maxStars": strconv.Itoa(level.MaxStars),
		})
		return err
	}

	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s.levels
		(id, name, boss_on_level, max_stars)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			boss_on_level = EXCLUDED.boss_on_level,
			max_stars = EXCLUDED.max_stars`,
		pq.QuoteIdentifier(p.schema),
	),
		level.ID,
		level.Name,
		level.BossOnLevel,
		level.MaxStars,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert level %d: %w", level.ID, err)
		reporting.Report(ctx, err, map[string]string{
			"levelID": strconv.FormatInt(level.ID, 10),
		})
		return err
	}

	return nil
}
