package repository

import "time"

type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
)

type Session struct {
	ID             string
	DeviceID       string
	SourceLanguage string
	TargetLanguage string
	StartedAt      time.Time
	EndedAt        *time.Time
	Status         SessionStatus
	SegmentCount   int
}

type TranscriptSegment struct {
	SessionID    string
	SegmentIndex int
	Original     string
	Translated   string
	SpokenAt     time.Time
	CreatedAt    time.Time
}
