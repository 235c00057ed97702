package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/kikitori/internal/webhook"
)

const (
	reportTimeout        = 15 * time.Second
	maxRejectionBodySize = 4 << 10
	schemaVersionHeader  = "X-Kikitori-Schema-Version"
)

// RejectedError is returned when the receiver answers a report with a
// non-2xx status. Body holds the start of the response body.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("session report rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("session report rejected with status %d: %s", e.StatusCode, e.Body)
}

type HTTPSender struct {
	webhookURL string
	client     *http.Client
}

func NewHTTPSender(webhookURL string) webhook.Sender {
	return &HTTPSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: reportTimeout},
	}
}

// SendSessionReport posts one report. It is a no-op without a webhook URL.
func (s *HTTPSender) SendSessionReport(ctx context.Context, payload webhook.SessionReportPayload) error {
	if s.webhookURL == "" {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode session report: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build session report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(schemaVersionHeader, strconv.Itoa(payload.SchemaVersion))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post session report: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		slog.Debug("session report delivered", "session_id", payload.SessionID, "source_kind", payload.SourceKind, "status", resp.StatusCode)
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxRejectionBodySize))
	rejected := &RejectedError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
	slog.Warn("session report rejected",
		"session_id", payload.SessionID,
		"source_kind", payload.SourceKind,
		"summary_status", payload.SummaryStatus,
		"status", resp.StatusCode)
	return rejected
}
