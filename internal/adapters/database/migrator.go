package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type migrator struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewDatabaseMigrator applies the embedded game progress migrations to a schema of db
func NewDatabaseMigrator(db *sqlx.DB, logger *slog.Logger) *migrator {
	return &migrator{
		db:     db,
		logger: logger,
	}
}

// Migrate creates schemaName if needed and brings it up to the latest migration
func (m *migrator) Migrate(ctx context.Context, schemaName string) error {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("migrate: failed to connect to db: %w", err)
	}
	defer conn.Close()

	if err := useSchema(ctx, conn, schemaName); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	instance, err := newMigrateInstance(ctx, conn, schemaName)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer instance.Close()

	logger := m.logger.With("schema", schemaName)
	logger.InfoContext(ctx, "Applying migrations")

	err = instance.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.InfoContext(ctx, "Schema already up to date")
	case err != nil:
		return fmt.Errorf("migrate: failed to apply migrations: %w", err)
	}

	version, dirty, err := instance.Version()
	if err != nil {
		return fmt.Errorf("migrate: failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migrate: schema %s is dirty at version %d", schemaName, version)
	}

	logger.InfoContext(ctx, "Migrations complete", "version", version)
	return nil
}

// useSchema makes schemaName the only schema unqualified names resolve to on conn
func useSchema(ctx context.Context, conn *sql.Conn, schemaName string) error {
	quoted := pq.QuoteIdentifier(schemaName)

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", quoted)); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", quoted)); err != nil {
		return fmt.Errorf("failed to set search path to %s: %w", schemaName, err)
	}

	return nil
}

func newMigrateInstance(ctx context.Context, conn *sql.Conn, schemaName string) (*migrate.Migrate, error) {
	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		DatabaseName:    DB_NAME,
		SchemaName:      schemaName,
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return instance, nil
}
