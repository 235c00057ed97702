package repository

import (
	"context"
	"time"
)

type CreateSessionInput struct {
	ID             string
	DeviceID       string
	SourceLanguage string
	TargetLanguage string
	StartedAt      time.Time
}

type EndSessionInput struct {
	SessionID string
	EndedAt   time.Time
	Status    SessionStatus
}

type InsertSegmentInput struct {
	SessionID    string
	SegmentIndex int
	Original     string
	Translated   string
	SpokenAt     time.Time
}

// SaveSummaryInput records one terminal summary. SessionID is empty for
// summaries of uploaded files.
type SaveSummaryInput struct {
	SessionID  string
	SourceKind string
	Status     string
	Text       string
	CreatedAt  time.Time
}

type SessionRepository interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	UpdateSessionEnded(ctx context.Context, input EndSessionInput) error
	ListRecentSessions(ctx context.Context, limit int) ([]Session, error)
}

type TranscriptRepository interface {
	InsertSegment(ctx context.Context, input InsertSegmentInput) error
	ListSegmentsBySessionID(ctx context.Context, sessionID string) ([]TranscriptSegment, error)
}

type SummaryRepository interface {
	SaveSummary(ctx context.Context, input SaveSummaryInput) error
}

type Repository interface {
	SessionRepository
	TranscriptRepository
	SummaryRepository
}
