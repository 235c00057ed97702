package session

import (
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/foxseedlab/kikitori/internal/transcript"
)

// Observer receives controller progress. Callbacks are never invoked while
// the controller lock is held, so an observer may call back into the
// controller.
type Observer interface {
	OnStateChange(from, to State)
	OnStatus(message string)
	OnPreview(text string)
	OnFinal(seg transcript.Segment)
	OnFailure(f *Failure)
	OnSummaryPending(kind summarizer.SourceKind, message string)
	OnSummary(result summarizer.Result)
}

type NopObserver struct{}

func (NopObserver) OnStateChange(State, State)                     {}
func (NopObserver) OnStatus(string)                                {}
func (NopObserver) OnPreview(string)                               {}
func (NopObserver) OnFinal(transcript.Segment)                     {}
func (NopObserver) OnFailure(*Failure)                             {}
func (NopObserver) OnSummaryPending(summarizer.SourceKind, string) {}
func (NopObserver) OnSummary(summarizer.Result)                    {}
