package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps benchmark history in PostgreSQL.
type PostgresStore struct {
	history
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := newPostgresStore(db)
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{history{db: db, rebind: dollarPlaceholders}}
}
