package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/foxseedlab/kikitori/internal/session"
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

func TestLanguagesCommand_RunsWithoutConfig(t *testing.T) {
	root := newRootCommand(&app{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"languages"})
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "zh") || !strings.Contains(out.String(), "Indonesian") {
		t.Fatalf("unexpected output: %s", out.String())
	}
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	if err := printResult(&out, summarizer.Result{Text: "short", Status: summarizer.StatusReady}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "short") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	err := printResult(&out, summarizer.Result{Text: "Failed to contact server.", Status: summarizer.StatusFailed})
	if err == nil || !strings.Contains(err.Error(), "Failed to contact server.") {
		t.Fatalf("expected failure error, got %v", err)
	}
}

func TestDetectMIME(t *testing.T) {
	mp4 := []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
	if got := summarizer.MediaKindFromMIME(detectMIME("talk", mp4)); got != summarizer.MediaVideo {
		t.Fatalf("expected video, got %s", got)
	}
	if got := summarizer.MediaKindFromMIME(detectMIME("talk.unknownext", []byte("ID3"))); got != summarizer.MediaAudio {
		t.Fatalf("expected audio, got %s", got)
	}
}

func TestTerminalObserver(t *testing.T) {
	var out, status bytes.Buffer
	obs := newTerminalObserver(&out, &status)
	obs.OnFinal(transcript.Final(1, "Halo", "Hello"))
	obs.OnStatus("Connected. Start speaking!")
	obs.OnFailure(&session.Failure{Kind: session.FailureConnection, Message: "Disconnected."})
	obs.OnFailure(&session.Failure{Kind: session.FailureConnection, Message: "Disconnected."})

	if out.String() != "Halo\n  -> Hello\n" {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
	if !strings.Contains(status.String(), "Connected. Start speaking!") {
		t.Fatalf("unexpected status: %q", status.String())
	}
	select {
	case f := <-obs.failed:
		if f.Message != "Disconnected." {
			t.Fatalf("unexpected failure: %+v", f)
		}
	default:
		t.Fatal("expected failure to be signalled")
	}
}
