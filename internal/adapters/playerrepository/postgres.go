package playerrepository

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
	tracer := otel.Tracer("game-progress/playerrepository/postgres")

	return &Postgres{
		db:     db,
		schema: schema,

		tracer: tracer,
	}
}

type dbPlayer struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

type dbStatistics struct {
	PlayerID             int64     `db:"player_id"`
	TotalLevelsCompleted int       `db:"total_levels_completed"`
	TotalKilledEnemies   int       `db:"total_killed_enemies"`
	TotalSolvedPuzzles   int       `db:"total_solved_puzzles"`
	TotalTimePlayed      string    `db:"total_time_played"`
	TotalStars           int       `db:"total_stars"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type dbAttempt struct {
	ID            int64     `db:"id"`
	PlayerID      int64     `db:"player_id"`
	LevelID       int64     `db:"level_id"`
	KilledEnemies int       `db:"killed_enemies"`
	SolvedPuzzles int       `db:"solved_puzzles"`
	TimeSpent     string    `db:"time_spent"`
	Stars         int       `db:"stars"`
	CreatedAt     time.Time `db:"created_at"`
}

func (e dbAttempt) toDomain() domain.AttemptRecord {
	return domain.AttemptRecord{
		ID:            e.ID,
		PlayerID:      e.PlayerID,
		LevelID:       e.LevelID,
		KilledEnemies: e.KilledEnemies,
		SolvedPuzzles: e.SolvedPuzzles,
		TimeSpent:     e.TimeSpent,
		Stars:         e.Stars,
		CreatedAt:     e.CreatedAt,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (p *Postgres) FindPlayerByID(ctx context.Context, playerID int64) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.FindPlayerByID")
	defer span.End()

	var entry dbPlayer
	err := p.db.GetContext(ctx, &entry, fmt.Sprintf(`SELECT
		id, username, created_at
		FROM %s.players
		WHERE id = $1`,
		pq.QuoteIdentifier(p.schema),
	),
		playerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Player{}, domain.ErrPlayerNotFound
		}
		err := fmt.Errorf("failed to select player %d: %w", playerID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": formatID(playerID),
		})
		return domain.Player{}, err
	}

	return domain.Player{
		ID:        entry.ID,
		Username:  entry.Username,
		CreatedAt: entry.CreatedAt,
	}, nil
}

// StorePlayer creates the player if the username is new and returns the stored player either way
func (p *Postgres) StorePlayer(ctx context.Context, username string) (domain.Player, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.StorePlayer")
	defer span.End()

	if username == "" {
		err := fmt.Errorf("username must not be empty")
		reporting.Report(ctx, err)
		return domain.Player{}, err
	}

	var entry dbPlayer
	// The no-op update makes RETURNING yield the existing row on conflict
	err := p.db.GetContext(ctx, &entry, fmt.Sprintf(`INSERT INTO %s.players
		(username)
		VALUES ($1)
		ON CONFLICT (username)
		DO UPDATE SET username = EXCLUDED.username
		RETURNING id, username, created_at`,
		pq.QuoteIdentifier(p.schema),
	),
		username,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert player: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"username": username,
		})
		return domain.Player{}, err
	}

	return domain.Player{
		ID:        entry.ID,
		Username:  entry.Username,
		CreatedAt: entry.CreatedAt,
	}, nil
}

func (p *Postgres) ListPlayerIDs(ctx context.Context) ([]int64, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListPlayerIDs")
	defer span.End()

	var ids []int64
	err := p.db.SelectContext(ctx, &ids, fmt.Sprintf(
		"SELECT id FROM %s.players ORDER BY id ASC",
		pq.QuoteIdentifier(p.schema),
	))
	if err != nil {
		err := fmt.Errorf("failed to list player ids: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	return ids, nil
}

// FindStatistics returns nil, nil when the player has no statistics yet
func (p *Postgres) FindStatistics(ctx context.Context, playerID int64) (*domain.PlayerAggregateStats, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.FindStatistics")
	defer span.End()

	var entry dbStatistics
	err := p.db.GetContext(ctx, &entry, fmt.Sprintf(`SELECT
		player_id, total_levels_completed, total_killed_enemies, total_solved_puzzles,
		total_time_played, total_stars, updated_at
		FROM %s.player_statistics
		WHERE player_id = $1`,
		pq.QuoteIdentifier(p.schema),
	),
		playerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("failed to select statistics for player %d: %w", playerID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": formatID(playerID),
		})
		return nil, err
	}

	return &domain.PlayerAggregateStats{
		PlayerID:             entry.PlayerID,
		TotalLevelsCompleted: entry.TotalLevelsCompleted,
		TotalKilledEnemies:   entry.TotalKilledEnemies,
		TotalSolvedPuzzles:   entry.TotalSolvedPuzzles,
		TotalTimePlayed:      entry.TotalTimePlayed,
		TotalStars:           entry.TotalStars,
		UpdatedAt:            entry.UpdatedAt,
	}, nil
}

func (p *Postgres) StoreStatistics(ctx context.Context, stats domain.PlayerAggregateStats) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreStatistics")
	defer span.End()

	_, err := p.db.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s.player_statistics
		(player_id, total_levels_completed, total_killed_enemies, total_solved_puzzles,
		total_time_played, total_stars, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id)
		DO UPDATE SET
			total_levels_completed = EXCLUDED.total_levels_completed,
			total_killed_enemies = EXCLUDED.total_killed_enemies,
			total_solved_puzzles = EXCLUDED.total_solved_puzzles,
			total_time_played = EXCLUDED.total_time_played,
			total_stars = EXCLUDED.total_stars,
			updated_at = EXCLUDED.updated_at`,
		pq.QuoteIdentifier(p.schema),
	),
		stats.PlayerID,
		stats.TotalLevelsCompleted,
		stats.TotalKilledEnemies,
		stats.TotalSolvedPuzzles,
		stats.TotalTimePlayed,
		stats.TotalStars,
		stats.UpdatedAt,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert statistics for player %d: %w", stats.PlayerID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID":  formatID(stats.PlayerID),
			"updatedAt": stats.UpdatedAt.Format(time.RFC3339),
		})
		return err
	}

	return nil
}

// StoreAttempt inserts the attempt and returns it with its assigned id
func (p *Postgres) StoreAttempt(ctx context.Context, attempt domain.AttemptRecord) (domain.AttemptRecord, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreAttempt")
	defer span.End()

	var entry dbAttempt
	err := p.db.GetContext(ctx, &entry, fmt.Sprintf(`INSERT INTO %s.level_attempts
		(player_id, level_id, killed_enemies, solved_puzzles, time_spent, stars, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, player_id, level_id, killed_enemies, solved_puzzles, time_spent, stars, created_at`,
		pq.QuoteIdentifier(p.schema),
	),
		attempt.PlayerID,
		attempt.LevelID,
		attempt.KilledEnemies,
		attempt.SolvedPuzzles,
		attempt.TimeSpent,
		attempt.Stars,
		attempt.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("failed to store attempt for player %d on level %d: %w", attempt.PlayerID, attempt.LevelID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID":  formatID(attempt.PlayerID),
			"levelID":   formatID(attempt.LevelID),
			"timeSpent": attempt.TimeSpent,
		})
		return domain.AttemptRecord{}, err
	}

	return entry.toDomain(), nil
}

// ListAttempts returns all attempts of the player, oldest first
func (p *Postgres) ListAttempts(ctx context.Context, playerID int64) ([]domain.AttemptRecord, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListAttempts")
	defer span.End()

	var entries []dbAttempt
	err := p.db.SelectContext(ctx, &entries, fmt.Sprintf(`SELECT
		id, player_id, level_id, killed_enemies, solved_puzzles, time_spent, stars, created_at
		FROM %s.level_attempts
		WHERE player_id = $1
		ORDER BY created_at ASC, id ASC`,
		pq.QuoteIdentifier(p.schema),
	),
		playerID,
	)
	if err != nil {
		err := fmt.Errorf("failed to list attempts for player %d: %w", playerID, err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": formatID(playerID),
		})
		return nil, err
	}

	attempts := make([]domain.AttemptRecord, 0, len(entries))
	for _, entry := range entries {
		attempts = append(attempts, entry.toDomain())
	}

	return attempts, nil
}
