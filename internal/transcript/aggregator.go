package transcript

import (
	"strings"
	"sync"
)

const IdlePreview = "..."

// Aggregator reduces the segment stream of one session into a live preview
// and two append-only buffers.
type Aggregator struct {
	mu         sync.Mutex
	preview    string
	original   strings.Builder
	translated strings.Builder
	lastSeq    uint64
	finals     int
}

func NewAggregator() *Aggregator {
	return &Aggregator{preview: IdlePreview}
}

// Apply consumes one segment and reports whether it changed state. Segments
// at or below the last consumed sequence number are ignored.
func (a *Aggregator) Apply(seg Segment) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if seg.Seq <= a.lastSeq {
		return false
	}
	switch seg.Kind {
	case KindInterim:
		a.preview = seg.OriginalText
	case KindFinal:
		a.preview = IdlePreview
		a.original.WriteString(seg.OriginalText)
		a.original.WriteByte(' ')
		a.translated.WriteString(seg.TranslatedText)
		a.translated.WriteByte(' ')
		a.finals++
	default:
		return false
	}
	a.lastSeq = seg.Seq
	return true
}

func (a *Aggregator) Preview() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preview
}

func (a *Aggregator) Original() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.original.String()
}

func (a *Aggregator) Translated() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.translated.String()
}

func (a *Aggregator) FinalCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finals
}
