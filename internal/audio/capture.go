package audio

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPermissionDenied = errors.New("audio device permission denied")
	ErrDeviceNotFound   = errors.New("audio device not found")
)

type Device struct {
	ID    string
	Label string
}

type Format struct {
	SampleRate int
	Channels   int
}

// BytesFor returns the size of d worth of 16-bit PCM, aligned to whole samples.
func (f Format) BytesFor(d time.Duration) int {
	frameBytes := f.Channels * 2
	samples := int(int64(f.SampleRate) * int64(d) / int64(time.Second))
	return samples * frameBytes
}

type Capturer interface {
	ListDevices(ctx context.Context) ([]Device, error)
	Open(ctx context.Context, deviceID string) (Stream, error)
}

// Stream is an open capture device. Drain returns the audio captured since
// the previous call, or nil when nothing new is available.
type Stream interface {
	Drain() ([]byte, error)
	Close() error
}

type Encoder interface {
	Encode(pcm []byte) ([]byte, error)
	Close()
}

type EncoderFactory func() (Encoder, error)
