package repository

import (
	"context"
	"time"

	"github.com/foxseedlab/kikitori/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CreateSession(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO live_sessions (id, device_id, source_language, target_language, started_at, status)
		 VALUES ($1, $2, $3, $4, $5, 'running')
		 RETURNING id, device_id, source_language, target_language, started_at, ended_at, status`,
		input.ID, input.DeviceID, input.SourceLanguage, input.TargetLanguage, input.StartedAt)
	var s repository.Session
	var endedAt *time.Time
	err := row.Scan(&s.ID, &s.DeviceID, &s.SourceLanguage, &s.TargetLanguage, &s.StartedAt, &endedAt, &s.Status)
	if err != nil {
		return nil, err
	}
	s.EndedAt = endedAt
	return &s, nil
}

func (r *PostgresRepository) UpdateSessionEnded(ctx context.Context, input repository.EndSessionInput) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE live_sessions SET status = $2, ended_at = $3 WHERE id = $1`,
		input.SessionID, string(input.Status), input.EndedAt)
	return err
}

func (r *PostgresRepository) ListRecentSessions(ctx context.Context, limit int) ([]repository.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.device_id, s.source_language, s.target_language, s.started_at, s.ended_at, s.status,
		        (SELECT COUNT(*) FROM transcript_segments t WHERE t.session_id = s.id)
		 FROM live_sessions s ORDER BY s.started_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Session
	for rows.Next() {
		var s repository.Session
		var endedAt *time.Time
		if err := rows.Scan(&s.ID, &s.DeviceID, &s.SourceLanguage, &s.TargetLanguage, &s.StartedAt, &endedAt, &s.Status, &s.SegmentCount); err != nil {
			return nil, err
		}
		s.EndedAt = endedAt
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) InsertSegment(ctx context.Context, input repository.InsertSegmentInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transcript_segments (session_id, segment_index, original, translated, spoken_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		input.SessionID, input.SegmentIndex, input.Original, input.Translated, input.SpokenAt)
	return err
}

func (r *PostgresRepository) ListSegmentsBySessionID(ctx context.Context, sessionID string) ([]repository.TranscriptSegment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, segment_index, original, translated, spoken_at, created_at
		 FROM transcript_segments WHERE session_id = $1 ORDER BY segment_index ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.TranscriptSegment
	for rows.Next() {
		var seg repository.TranscriptSegment
		if err := rows.Scan(&seg.SessionID, &seg.SegmentIndex, &seg.Original, &seg.Translated, &seg.SpokenAt, &seg.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, seg)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) SaveSummary(ctx context.Context, input repository.SaveSummaryInput) error {
	var sessionID *string
	if input.SessionID != "" {
		sessionID = &input.SessionID
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO summaries (session_id, source_kind, status, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sessionID, input.SourceKind, input.Status, input.Text, input.CreatedAt)
	return err
}

// Shutdown is called by the injector on exit.
func (r *PostgresRepository) Shutdown() {
	r.pool.Close()
}
