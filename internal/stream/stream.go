package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foxseedlab/kikitori/internal/transcript"
)

var ErrMalformedFrame = errors.New("malformed stream frame")

// Handler receives inbound events of one connection. Calls come from a single
// goroutine in arrival order.
type Handler interface {
	OnSegment(seg transcript.Segment)
	// OnDisconnect is called at most once, and only when the connection ended
	// without Close having been called first.
	OnDisconnect(err error)
}

type Conn interface {
	// SendChunk writes one binary audio chunk. It is a no-op once the
	// connection is closed or closing.
	SendChunk(chunk []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string, handler Handler) (Conn, error)
}

type frame struct {
	Type       string  `json:"type"`
	Text       *string `json:"text"`
	Original   *string `json:"original"`
	Translated *string `json:"translated"`
}

// ParseFrame decodes one inbound JSON frame into a segment carrying seq.
func ParseFrame(data []byte, seq uint64) (transcript.Segment, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return transcript.Segment{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	switch transcript.Kind(f.Type) {
	case transcript.KindInterim:
		if f.Text == nil {
			return transcript.Segment{}, fmt.Errorf("%w: interim frame without text", ErrMalformedFrame)
		}
		return transcript.Interim(seq, *f.Text), nil
	case transcript.KindFinal:
		if f.Original == nil || f.Translated == nil {
			return transcript.Segment{}, fmt.Errorf("%w: final frame without original or translated", ErrMalformedFrame)
		}
		return transcript.Final(seq, *f.Original, *f.Translated), nil
	case "":
		return transcript.Segment{}, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	default:
		return transcript.Segment{}, fmt.Errorf("%w: unknown type %q", ErrMalformedFrame, f.Type)
	}
}
