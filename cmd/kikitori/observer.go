package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/foxseedlab/kikitori/internal/session"
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

// terminalObserver prints finals to out and status lines to status.
type terminalObserver struct {
	session.NopObserver

	mu     sync.Mutex
	out    io.Writer
	status io.Writer

	failOnce sync.Once
	failed   chan *session.Failure
}

func newTerminalObserver(out, status io.Writer) *terminalObserver {
	return &terminalObserver{
		out:    out,
		status: status,
		failed: make(chan *session.Failure, 1),
	}
}

func (o *terminalObserver) OnStatus(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.status, message)
}

func (o *terminalObserver) OnPreview(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.status, "  %s\n", text)
}

func (o *terminalObserver) OnFinal(seg transcript.Segment) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.out, seg.OriginalText)
	fmt.Fprintf(o.out, "  -> %s\n", seg.TranslatedText)
}

func (o *terminalObserver) OnFailure(f *session.Failure) {
	o.mu.Lock()
	fmt.Fprintln(o.status, f.Message)
	o.mu.Unlock()
	o.failOnce.Do(func() {
		o.failed <- f
	})
}

func (o *terminalObserver) OnSummaryPending(_ summarizer.SourceKind, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.status, message)
}

// printResult writes a ready summary to out and returns an error for a
// failed one.
func printResult(out io.Writer, res summarizer.Result) error {
	if !res.Ready() {
		return fmt.Errorf("summary failed: %s", res.Text)
	}
	_, err := fmt.Fprintf(out, "\nSummary:\n%s\n", res.Text)
	return err
}
