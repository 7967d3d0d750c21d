package database

import (
	"fmt"
	"strings"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const DB_NAME = "game_progress"

const LOCAL_CONNECTION_STRING = "user=postgres password=postgres dbname=game_progress sslmode=disable"

const MAIN_SCHEMA = "game_progress"
const TESTING_SCHEMA = "game_progress_test"

func GetSchemaName(isTesting bool) string {
	if isTesting {
		return TESTING_SCHEMA
	}
	return MAIN_SCHEMA
}

// GetConnectionString builds a lib/pq key/value connection string.
// host may be a host name or a unix socket directory (Cloud SQL).
func GetConnectionString(dbUsername, dbPassword, host string) string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s",
		quoteConnectionValue(dbUsername),
		quoteConnectionValue(dbPassword),
		DB_NAME,
		quoteConnectionValue(host),
	)
}

var connectionValueReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteConnectionValue(value string) string {
	return "'" + connectionValueReplacer.Replace(value) + "'"
}

func NewPostgresDatabase(connectionString string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	err = createDatabaseIfNotExists(db, DB_NAME)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return db, nil
}

func NewConfiguredPostgresDatabase(conf config.Config) (*sqlx.DB, error) {
	var connectionString string
	if conf.IsDevelopment() && conf.DBHost() == "" {
		connectionString = LOCAL_CONNECTION_STRING
	} else {
		connectionString = GetConnectionString(conf.DBUsername(), conf.DBPassword(), conf.DBHost())
	}

	db, err := NewPostgresDatabase(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres database: %w", err)
	}

	return db, nil
}

func createDatabaseIfNotExists(db *sqlx.DB, dbName string) error {
	row := db.QueryRowx("SELECT COUNT(*) FROM pg_database WHERE datname = $1", dbName)
	if row.Err() != nil {
		return fmt.Errorf("createDB: failed to check if database exists: %w", row.Err())
	}

	var count int
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("createDB: failed to scan row: %w", err)
	}

	if count > 0 {
		return nil
	}

	_, err := db.Exec(fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(dbName)))
	if err != nil {
		return fmt.Errorf("createDB: failed to create database: %w", err)
	}

	return nil
}
