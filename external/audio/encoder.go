package audio

import (
	"fmt"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
)

type passthroughEncoder struct{}

func NewPassthroughEncoder() audio.Encoder {
	return passthroughEncoder{}
}

func (passthroughEncoder) Encode(pcm []byte) ([]byte, error) {
	return pcm, nil
}

func (passthroughEncoder) Close() {}

func NewEncoderFactory(codec string, format audio.Format) (audio.EncoderFactory, error) {
	switch codec {
	case config.AudioCodecPCM:
		return func() (audio.Encoder, error) { return NewPassthroughEncoder(), nil }, nil
	case config.AudioCodecOpus:
		return func() (audio.Encoder, error) { return NewOpusEncoder(format) }, nil
	default:
		return nil, fmt.Errorf("unsupported audio codec %q", codec)
	}
}
