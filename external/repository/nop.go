package repository

import (
	"context"

	"github.com/foxseedlab/kikitori/internal/repository"
)

// NopRepository stands in when no database is configured.
type NopRepository struct{}

func NewNopRepository() repository.Repository {
	return NopRepository{}
}

func (NopRepository) CreateSession(_ context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	return &repository.Session{
		ID:             input.ID,
		DeviceID:       input.DeviceID,
		SourceLanguage: input.SourceLanguage,
		TargetLanguage: input.TargetLanguage,
		StartedAt:      input.StartedAt,
		Status:         repository.SessionStatusRunning,
	}, nil
}

func (NopRepository) UpdateSessionEnded(_ context.Context, _ repository.EndSessionInput) error {
	return nil
}

func (NopRepository) ListRecentSessions(_ context.Context, _ int) ([]repository.Session, error) {
	return nil, nil
}

func (NopRepository) InsertSegment(_ context.Context, _ repository.InsertSegmentInput) error {
	return nil
}

func (NopRepository) ListSegmentsBySessionID(_ context.Context, _ string) ([]repository.TranscriptSegment, error) {
	return nil, nil
}

func (NopRepository) SaveSummary(_ context.Context, _ repository.SaveSummaryInput) error {
	return nil
}
