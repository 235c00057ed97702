package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/foxseedlab/kikitori/internal/summarizer"
)

const (
	textEndpoint  = "/summarize-text/"
	audioEndpoint = "/summarize-audio/"
	videoEndpoint = "/summarize-video/"

	messageEmptySummary      = "Summary received, but empty."
	messageTextRequestFailed = "Failed to generate summary."
	messageTextUnreachable   = "Failed to contact server for summarization."
	messageMediaUnreachable  = "Failed to contact server."

	maxResponseBytes         = 1 << 20
	multipartFileField       = "file"
	targetLanguageQueryParam = "target_lang"
)

type HTTPRequester struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRequester(baseURL string) summarizer.Requester {
	return &HTTPRequester{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

type textRequest struct {
	Transcript string `json:"transcript"`
	TargetLang string `json:"target_lang"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

func (r *HTTPRequester) SummarizeText(ctx context.Context, text, targetLanguage string) summarizer.Result {
	b, err := json.Marshal(textRequest{Transcript: text, TargetLang: targetLanguage})
	if err != nil {
		return failed(summarizer.SourceLiveSession, messageTextUnreachable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+textEndpoint, bytes.NewReader(b))
	if err != nil {
		slog.Error("failed to build summarize-text request", "error", err)
		return failed(summarizer.SourceLiveSession, messageTextUnreachable)
	}
	req.Header.Set("Content-Type", "application/json")
	return r.do(req, summarizer.SourceLiveSession, messageTextRequestFailed, messageTextUnreachable)
}

func (r *HTTPRequester) SummarizeMedia(ctx context.Context, media summarizer.Media, targetLanguage string) summarizer.Result {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(multipartFileField, media.Filename)
	if err != nil {
		return failed(summarizer.SourceUploadedFile, messageMediaUnreachable)
	}
	if _, err := part.Write(media.Data); err != nil {
		return failed(summarizer.SourceUploadedFile, messageMediaUnreachable)
	}
	if err := writer.Close(); err != nil {
		return failed(summarizer.SourceUploadedFile, messageMediaUnreachable)
	}

	endpoint := audioEndpoint
	if media.Kind == summarizer.MediaVideo {
		endpoint = videoEndpoint
	}
	q := url.Values{}
	q.Set(targetLanguageQueryParam, targetLanguage)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+endpoint+"?"+q.Encode(), body)
	if err != nil {
		slog.Error("failed to build summarize-media request", "error", err)
		return failed(summarizer.SourceUploadedFile, messageMediaUnreachable)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return r.do(req, summarizer.SourceUploadedFile, messageMediaUnreachable, messageMediaUnreachable)
}

func (r *HTTPRequester) do(req *http.Request, kind summarizer.SourceKind, fallbackDetail, unreachable string) summarizer.Result {
	slog.Info("summarization request started", "url", req.URL.Path, "source_kind", kind)
	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("summarization request failed", "error", err, "source_kind", kind)
		return failed(kind, unreachable)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		slog.Warn("failed to read summarization response", "error", err, "status", resp.StatusCode)
		return failed(kind, unreachable)
	}
	var parsed summaryResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if !isHTTPSuccessStatus(resp.StatusCode) {
		detail := fallbackDetail
		if decodeErr == nil && parsed.Detail != "" {
			detail = parsed.Detail
		}
		slog.Warn("summarization request rejected", "status", resp.StatusCode, "detail", detail, "source_kind", kind)
		return failed(kind, detail)
	}
	if decodeErr != nil {
		slog.Warn("summarization response is not json", "error", decodeErr, "status", resp.StatusCode)
		return failed(kind, unreachable)
	}
	text := parsed.Summary
	if text == "" {
		text = messageEmptySummary
	}
	slog.Info("summarization request completed", "source_kind", kind, "summary_chars", len(text))
	return summarizer.Result{Text: text, SourceKind: kind, Status: summarizer.StatusReady}
}

func failed(kind summarizer.SourceKind, detail string) summarizer.Result {
	return summarizer.Result{Text: detail, SourceKind: kind, Status: summarizer.StatusFailed}
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
