package summarizer

import (
	"context"
	"strings"
)

type SourceKind string

const (
	SourceLiveSession  SourceKind = "live_session"
	SourceUploadedFile SourceKind = "uploaded_file"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// MediaKindFromMIME routes video/* to the video endpoint and everything else
// to the audio endpoint.
func MediaKindFromMIME(mimeType string) MediaKind {
	if strings.HasPrefix(strings.ToLower(mimeType), "video/") {
		return MediaVideo
	}
	return MediaAudio
}

type Media struct {
	Filename string
	Data     []byte
	Kind     MediaKind
}

type Result struct {
	Text       string
	SourceKind SourceKind
	Status     Status
}

func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Requester issues one-shot summarization requests. Every call returns exactly
// one terminal Result. Overlapping calls are not deduplicated.
type Requester interface {
	SummarizeText(ctx context.Context, text, targetLanguage string) Result
	SummarizeMedia(ctx context.Context, media Media, targetLanguage string) Result
}
