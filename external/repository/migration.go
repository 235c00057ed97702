package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE live_session_status AS ENUM ('running', 'completed', 'failed'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS live_sessions (
		id UUID PRIMARY KEY,
		device_id TEXT NOT NULL,
		source_language TEXT NOT NULL,
		target_language TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ,
		status live_session_status NOT NULL DEFAULT 'running'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_live_sessions_started ON live_sessions (started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS transcript_segments (
		session_id UUID NOT NULL REFERENCES live_sessions(id) ON DELETE CASCADE,
		segment_index INTEGER NOT NULL,
		original TEXT NOT NULL,
		translated TEXT NOT NULL,
		spoken_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (session_id, segment_index)
	)`,
	`CREATE TABLE IF NOT EXISTS summaries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id UUID REFERENCES live_sessions(id) ON DELETE SET NULL,
		source_kind TEXT NOT NULL,
		status TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_summaries_session ON summaries (session_id)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
