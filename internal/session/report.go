package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/foxseedlab/kikitori/internal/webhook"
)

const reportTimeLayout = "2006-01-02 15:04:05"

type finalRecord struct {
	index      int
	original   string
	translated string
	spokenAt   time.Time
}

// sessionReport is the immutable record of a stopped live session.
type sessionReport struct {
	sessionID      string
	deviceID       string
	sourceLanguage string
	targetLanguage string
	startedAt      time.Time
	endedAt        time.Time
	finals         []finalRecord
	original       string
	translated     string
}

func buildReportText(rep sessionReport, timezone string, loc *time.Location, result summarizer.Result) []byte {
	loc = safeLocation(loc)
	lines := []string{
		fmt.Sprintf("Session: %s", rep.sessionID),
		fmt.Sprintf("Device: %s", rep.deviceID),
		fmt.Sprintf("Languages: %s -> %s", rep.sourceLanguage, rep.targetLanguage),
		fmt.Sprintf("Period: %s ~ %s (%s)", rep.startedAt.In(loc).Format(reportTimeLayout), rep.endedAt.In(loc).Format(reportTimeLayout), timezone),
		"",
	}
	for _, f := range rep.finals {
		elapsed := f.spokenAt.Sub(rep.startedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		stamp := formatElapsedHMS(elapsed)
		lines = append(lines, fmt.Sprintf("%s %s", stamp, f.original))
		lines = append(lines, fmt.Sprintf("%s %s", strings.Repeat(" ", len(stamp)), f.translated))
	}
	if result.Status != "" {
		lines = append(lines, "", fmt.Sprintf("Summary (%s):", result.Status), result.Text)
	}
	return []byte(strings.Join(lines, "\n"))
}

func buildSessionReportPayload(rep sessionReport, timezone string, loc *time.Location, result summarizer.Result) webhook.SessionReportPayload {
	loc = safeLocation(loc)
	durationSeconds := int64(rep.endedAt.Sub(rep.startedAt).Seconds())
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	segments := make([]webhook.SessionReportSegment, 0, len(rep.finals))
	for _, f := range rep.finals {
		segments = append(segments, webhook.SessionReportSegment{
			Index:      f.index,
			SpokenAt:   f.spokenAt.In(loc).Format(time.RFC3339),
			Original:   f.original,
			Translated: f.translated,
		})
	}
	return webhook.SessionReportPayload{
		SchemaVersion:   webhook.SessionReportSchemaVersion,
		SessionID:       rep.sessionID,
		SourceKind:      string(summarizer.SourceLiveSession),
		SourceLanguage:  rep.sourceLanguage,
		TargetLanguage:  rep.targetLanguage,
		StartAt:         rep.startedAt.In(loc).Format(time.RFC3339),
		EndAt:           rep.endedAt.In(loc).Format(time.RFC3339),
		Timezone:        timezone,
		DurationSeconds: durationSeconds,
		SegmentCount:    len(rep.finals),
		Segments:        segments,
		Original:        rep.original,
		Translated:      rep.translated,
		SummaryStatus:   string(result.Status),
		Summary:         result.Text,
	}
}

func buildStandalonePayload(targetLanguage, timezone string, result summarizer.Result) webhook.SessionReportPayload {
	return webhook.SessionReportPayload{
		SchemaVersion:  webhook.SessionReportSchemaVersion,
		SourceKind:     string(result.SourceKind),
		TargetLanguage: targetLanguage,
		Timezone:       timezone,
		Segments:       []webhook.SessionReportSegment{},
		SummaryStatus:  string(result.Status),
		Summary:        result.Text,
	}
}

func formatElapsedHMS(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func safeLocation(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
