package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/lecture-room-api/pkg/config"
)

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// DSN renders the lib/pq connection string.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
    id         TEXT PRIMARY KEY,
    room_name  TEXT NOT NULL UNIQUE,
    capacity   INTEGER NOT NULL CHECK (capacity > 0),
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS lectures (
    id            TEXT PRIMARY KEY,
    department    TEXT NOT NULL,
    level         TEXT NOT NULL,
    group_name    TEXT NOT NULL,
    subject_name  TEXT NOT NULL,
    student_count INTEGER NOT NULL CHECK (student_count >= 0),
    mode          TEXT NOT NULL,
    day           TEXT NOT NULL,
    time          TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS lecture_schedule (
    id           TEXT PRIMARY KEY,
    run_id       TEXT NOT NULL,
    lecture_id   TEXT NOT NULL,
    department   TEXT NOT NULL,
    level        TEXT NOT NULL,
    subject_name TEXT NOT NULL,
    group_name   TEXT NOT NULL,
    time         TEXT NOT NULL,
    mode         TEXT NOT NULL,
    room_name    TEXT NOT NULL,
    day          TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    UNIQUE (room_name, day, time)
);`

// EnsureSchema creates the scheduler tables when they are missing.
func EnsureSchema(ctx context.Context, db sqlx.ExecerContext) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
