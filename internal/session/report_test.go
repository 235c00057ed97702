package session

import (
	"strings"
	"testing"
	"time"

	"github.com/foxseedlab/kikitori/internal/summarizer"
)

func sampleReport() sessionReport {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return sessionReport{
		sessionID:      "sess-1",
		deviceID:       "mic-1",
		sourceLanguage: "id",
		targetLanguage: "en",
		startedAt:      start,
		endedAt:        start.Add(95 * time.Second),
		finals: []finalRecord{
			{index: 0, original: "Halo", translated: "Hello", spokenAt: start.Add(3 * time.Second)},
			{index: 1, original: "dunia", translated: "world", spokenAt: start.Add(62 * time.Second)},
		},
		original:   "Halo dunia ",
		translated: "Hello world ",
	}
}

func TestBuildReportText(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	text := string(buildReportText(sampleReport(), "Asia/Tokyo", tokyo, summarizer.Result{Text: "Greeting.", Status: summarizer.StatusReady}))

	for _, want := range []string{
		"Session: sess-1",
		"Languages: id -> en",
		"Period: 2026-03-01 18:00:00 ~ 2026-03-01 18:01:35 (Asia/Tokyo)",
		"00:00:03 Halo\n         Hello",
		"00:01:02 dunia\n         world",
		"Summary (ready):\nGreeting.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestBuildReportText_WithoutSummary(t *testing.T) {
	text := string(buildReportText(sampleReport(), "UTC", nil, summarizer.Result{}))
	if strings.Contains(text, "Summary") {
		t.Fatalf("unexpected summary section:\n%s", text)
	}
}

func TestBuildSessionReportPayload(t *testing.T) {
	p := buildSessionReportPayload(sampleReport(), "UTC", time.UTC, summarizer.Result{Text: "Greeting.", Status: summarizer.StatusReady})
	if p.SchemaVersion != 1 || p.SessionID != "sess-1" || p.SourceKind != "live_session" {
		t.Fatalf("unexpected header: %+v", p)
	}
	if p.DurationSeconds != 95 || p.SegmentCount != 2 {
		t.Fatalf("unexpected counts: %d seconds, %d segments", p.DurationSeconds, p.SegmentCount)
	}
	if p.Segments[1].SpokenAt != "2026-03-01T09:01:02Z" || p.Segments[1].Translated != "world" {
		t.Fatalf("unexpected segment: %+v", p.Segments[1])
	}
	if p.Original != "Halo dunia " || p.Summary != "Greeting." || p.SummaryStatus != "ready" {
		t.Fatalf("unexpected body: %+v", p)
	}
}

func TestFormatElapsedHMS(t *testing.T) {
	if got := formatElapsedHMS(3723 * time.Second); got != "01:02:03" {
		t.Fatalf("unexpected format: %s", got)
	}
}
