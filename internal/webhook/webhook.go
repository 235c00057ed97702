package webhook

import "context"

const SessionReportSchemaVersion = 1

type SessionReportSegment struct {
	Index      int    `json:"index"`
	SpokenAt   string `json:"spoken_at"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// SessionReportPayload is posted once a summary reaches a terminal status.
// Session fields are empty for uploaded-file summaries.
type SessionReportPayload struct {
	SchemaVersion   int                    `json:"schema_version"`
	SessionID       string                 `json:"session_id,omitempty"`
	SourceKind      string                 `json:"source_kind"`
	SourceLanguage  string                 `json:"source_language,omitempty"`
	TargetLanguage  string                 `json:"target_language"`
	StartAt         string                 `json:"start_at,omitempty"`
	EndAt           string                 `json:"end_at,omitempty"`
	Timezone        string                 `json:"timezone"`
	DurationSeconds int64                  `json:"duration_seconds"`
	SegmentCount    int                    `json:"segment_count"`
	Segments        []SessionReportSegment `json:"segments"`
	Original        string                 `json:"original"`
	Translated      string                 `json:"translated"`
	SummaryStatus   string                 `json:"summary_status"`
	Summary         string                 `json:"summary"`
}

type Sender interface {
	SendSessionReport(ctx context.Context, payload SessionReportPayload) error
}
