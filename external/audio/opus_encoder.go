//go:build opus

package audio

import (
	"encoding/binary"
	"fmt"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/hraban/opus"
)

const (
	opusFrameMs      = 20
	maxOpusPacketLen = 4000
)

// OpusEncoder encodes PCM into 20 ms opus packets. Each packet is written with
// a 2-byte big-endian length prefix. Samples that do not fill a whole frame are
// carried into the next call.
type OpusEncoder struct {
	enc          *opus.Encoder
	frameSamples int
	pending      []int16
	packet       []byte
}

func NewOpusEncoder(format audio.Format) (audio.Encoder, error) {
	enc, err := opus.NewEncoder(format.SampleRate, format.Channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}
	return &OpusEncoder{
		enc:          enc,
		frameSamples: format.SampleRate * opusFrameMs / 1000 * format.Channels,
		packet:       make([]byte, maxOpusPacketLen),
	}, nil
}

func (e *OpusEncoder) Encode(pcm []byte) ([]byte, error) {
	for i := 0; i+1 < len(pcm); i += 2 {
		e.pending = append(e.pending, int16(binary.LittleEndian.Uint16(pcm[i:])))
	}
	var out []byte
	for len(e.pending) >= e.frameSamples {
		n, err := e.enc.Encode(e.pending[:e.frameSamples], e.packet)
		if err != nil {
			return nil, fmt.Errorf("encode opus frame: %w", err)
		}
		out = binary.BigEndian.AppendUint16(out, uint16(n))
		out = append(out, e.packet[:n]...)
		e.pending = e.pending[e.frameSamples:]
	}
	return out, nil
}

func (e *OpusEncoder) Close() {
	e.pending = nil
}
