package levelrepository

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/database"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/domaintest"
)

func newPostgres(t *testing.T, db *sqlx.DB, schemaSuffix string) *Postgres {
	require.NotEmpty(t, schemaSuffix, "schemaSuffix must not be empty")
	schema := fmt.Sprintf("level_repo_test_%s", schemaSuffix)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schema)))

	migrator := database.NewDatabaseMigrator(db, logger)

	err := migrator.Migrate(t.Context(), schema)
	require.NoError(t, err)

	return NewPostgres(db, schema)
}

func TestPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	t.Parallel()

	ctx := t.Context()
	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	require.NoError(t, err)

	t.Run("Store/FindLevelByID", func(t *testing.T) {
		t.Parallel()
		p := newPostgres(t, db, "store_find")

		_, err := p.FindLevelByID(ctx, 1)
		require.ErrorIs(t, err, domain.ErrLevelNotFound)

		level := domaintest.NewLevel(1, true)
		err = p.StoreLevel(ctx, level)
		require.NoError(t, err)

		found, err := p.FindLevelByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, level, found)

		level.Name = "The Keep"
		level.BossOnLevel = false
		level.MaxStars = 5
		err = p.StoreLevel(ctx, level)
		require.NoError(t, err)

		found, err = p.FindLevelByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, level, found)
	})

	t.Run("negative max stars", func(t *testing.T) {
		t.Parallel()
		p := newPostgres(t, db, "negative_stars")

		level := domaintest.NewLevel(1, false)
		level.MaxStars = -1
		err := p.StoreLevel(ctx, level)
		require.Error(t, err)
	})
}
