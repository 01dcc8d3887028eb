package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS catalog_activities (
	subject_code        TEXT NOT NULL,
	subject_description TEXT NOT NULL DEFAULT '',
	group_code          TEXT NOT NULL,
	activity_code       TEXT NOT NULL,
	day_of_week         TEXT NOT NULL,
	start_time          TEXT NOT NULL,
	duration_minutes    INTEGER NOT NULL CHECK (duration_minutes > 0),
	activity_type       TEXT NOT NULL DEFAULT '',
	location            TEXT NOT NULL DEFAULT '',
	campus              TEXT NOT NULL DEFAULT '',
	position            INTEGER NOT NULL,
	PRIMARY KEY (subject_code, group_code, activity_code)
)`,
	`CREATE TABLE IF NOT EXISTS optimization_runs (
	id            UUID PRIMARY KEY,
	status        TEXT NOT NULL,
	request_hash  TEXT NOT NULL,
	request       JSONB NOT NULL,
	score         DOUBLE PRECISION,
	lines         JSONB NOT NULL DEFAULT '[]',
	schedule      JSONB NOT NULL DEFAULT '[]',
	evaluated     BIGINT NOT NULL DEFAULT 0,
	exhaustive    BOOLEAN NOT NULL DEFAULT FALSE,
	error_message TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ
)`,
	`CREATE INDEX IF NOT EXISTS idx_optimization_runs_created_at ON optimization_runs (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_optimization_runs_status ON optimization_runs (status)`,
}

// EnsureSchema creates the catalog and run tables when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, statement := range schema {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
