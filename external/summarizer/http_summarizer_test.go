package summarizer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/kikitori/internal/summarizer"
)

func TestSummarizeText_Success(t *testing.T) {
	var got textRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transcriber/summarize-text/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"summary":"A short talk."}`))
	}))
	defer server.Close()

	res := NewHTTPRequester(server.URL+"/transcriber/").SummarizeText(context.Background(), "Hello world ", "en")
	if res.Status != summarizer.StatusReady || res.Text != "A short talk." {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.SourceKind != summarizer.SourceLiveSession {
		t.Fatalf("unexpected source kind: %s", res.SourceKind)
	}
	if got.Transcript != "Hello world " || got.TargetLang != "en" {
		t.Fatalf("unexpected request body: %+v", got)
	}
}

func TestSummarizeText_EmptySummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":""}`))
	}))
	defer server.Close()

	res := NewHTTPRequester(server.URL).SummarizeText(context.Background(), "x", "en")
	if res.Status != summarizer.StatusReady || res.Text != messageEmptySummary {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSummarizeText_ErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"transcript too short"}`))
	}))
	defer server.Close()

	res := NewHTTPRequester(server.URL).SummarizeText(context.Background(), "x", "en")
	if res.Status != summarizer.StatusFailed || res.Text != "transcript too short" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSummarizeText_ErrorWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	res := NewHTTPRequester(server.URL).SummarizeText(context.Background(), "x", "en")
	if res.Status != summarizer.StatusFailed || res.Text != messageTextRequestFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSummarizeText_NonJSONSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	res := NewHTTPRequester(server.URL).SummarizeText(context.Background(), "x", "en")
	if res.Status != summarizer.StatusFailed || res.Text != messageTextUnreachable {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSummarizeText_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := NewHTTPRequester(url).SummarizeText(context.Background(), "x", "en")
	if res.Status != summarizer.StatusFailed || res.Text != messageTextUnreachable {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSummarizeMedia_RoutesByKind(t *testing.T) {
	cases := []struct {
		kind summarizer.MediaKind
		path string
	}{
		{kind: summarizer.MediaAudio, path: "/summarize-audio/"},
		{kind: summarizer.MediaVideo, path: "/summarize-video/"},
	}
	for _, tc := range cases {
		var gotPath, gotLang, gotField, gotFilename, gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotLang = r.URL.Query().Get("target_lang")
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
			}
			reader, err := r.MultipartReader()
			if err != nil {
				t.Errorf("multipart reader: %v", err)
				return
			}
			part, err := reader.NextPart()
			if err != nil {
				t.Errorf("next part: %v", err)
				return
			}
			gotField = part.FormName()
			gotFilename = part.FileName()
			b, _ := io.ReadAll(part)
			gotBody = string(b)
			_, _ = w.Write([]byte(`{"summary":"media summary"}`))
		}))

		res := NewHTTPRequester(server.URL).SummarizeMedia(context.Background(), summarizer.Media{
			Filename: "meeting.bin",
			Data:     []byte("payload"),
			Kind:     tc.kind,
		}, "ja")
		server.Close()

		if res.Status != summarizer.StatusReady || res.Text != "media summary" || res.SourceKind != summarizer.SourceUploadedFile {
			t.Fatalf("%s: unexpected result: %+v", tc.kind, res)
		}
		if gotPath != tc.path || gotLang != "ja" {
			t.Fatalf("%s: unexpected route %s?target_lang=%s", tc.kind, gotPath, gotLang)
		}
		if gotField != "file" || gotFilename != "meeting.bin" || gotBody != "payload" {
			t.Fatalf("%s: unexpected part %s/%s/%s", tc.kind, gotField, gotFilename, gotBody)
		}
	}
}

func TestSummarizeMedia_ErrorFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	res := NewHTTPRequester(server.URL).SummarizeMedia(context.Background(), summarizer.Media{Filename: "a.mp3", Kind: summarizer.MediaAudio}, "en")
	if res.Status != summarizer.StatusFailed || res.Text != messageMediaUnreachable {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMediaKindFromMIME(t *testing.T) {
	if summarizer.MediaKindFromMIME("video/mp4") != summarizer.MediaVideo {
		t.Fatal("expected video")
	}
	if summarizer.MediaKindFromMIME("audio/mpeg") != summarizer.MediaAudio {
		t.Fatal("expected audio")
	}
	if summarizer.MediaKindFromMIME("application/octet-stream") != summarizer.MediaAudio {
		t.Fatal("expected audio fallback")
	}
}
