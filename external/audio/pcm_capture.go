package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/foxseedlab/kikitori/internal/audio"
)

const (
	StdinDeviceID = "-"

	readFrameDuration = 20 * time.Millisecond
)

// PCMCapturer treats standard input and every regular file or named pipe in a
// directory as a device producing raw little-endian 16-bit PCM.
type PCMCapturer struct {
	deviceDir string
	format    audio.Format
	stdin     io.Reader
}

func NewPCMCapturer(deviceDir string, format audio.Format) *PCMCapturer {
	return &PCMCapturer{
		deviceDir: deviceDir,
		format:    format,
		stdin:     os.Stdin,
	}
}

func (c *PCMCapturer) ListDevices(_ context.Context) ([]audio.Device, error) {
	devices := []audio.Device{{ID: StdinDeviceID, Label: "Standard input"}}
	if c.deviceDir == "" {
		return devices, nil
	}
	entries, err := os.ReadDir(c.deviceDir)
	if err != nil {
		return nil, fmt.Errorf("read capture device dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		mode := e.Type()
		if mode.IsRegular() || mode&fs.ModeNamedPipe != 0 {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		devices = append(devices, audio.Device{
			ID:    filepath.Join(c.deviceDir, name),
			Label: name,
		})
	}
	return devices, nil
}

func (c *PCMCapturer) Open(ctx context.Context, deviceID string) (audio.Stream, error) {
	if deviceID == "" {
		devices, err := c.ListDevices(ctx)
		if err != nil {
			return nil, err
		}
		deviceID = devices[0].ID
	}
	if deviceID == StdinDeviceID {
		slog.Info("capture device opened", "device_id", deviceID)
		return newPacedStream(io.NopCloser(c.stdin), c.format), nil
	}
	f, err := os.Open(deviceID)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: %s", audio.ErrPermissionDenied, deviceID)
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", audio.ErrDeviceNotFound, deviceID)
		default:
			return nil, fmt.Errorf("open capture device %s: %w", deviceID, err)
		}
	}
	slog.Info("capture device opened", "device_id", deviceID)
	return newPacedStream(f, c.format), nil
}

// pacedStream reads the device in the background no faster than real time, so
// a prerecorded file behaves like a live microphone.
type pacedStream struct {
	src    io.ReadCloser
	format audio.Format

	mu      sync.Mutex
	buf     []byte
	readErr error
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
}

func newPacedStream(src io.ReadCloser, format audio.Format) *pacedStream {
	s := &pacedStream{
		src:    src,
		format: format,
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *pacedStream) readLoop() {
	frame := make([]byte, s.format.BytesFor(readFrameDuration))
	bytesPerSecond := s.format.BytesFor(time.Second)
	started := time.Now()
	var total int64
	for {
		n, err := io.ReadFull(s.src, frame)
		if n > 0 {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			s.buf = append(s.buf, frame[:n]...)
			s.mu.Unlock()
			total += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				err = io.EOF
			}
			s.mu.Lock()
			if !s.closed {
				s.readErr = err
			}
			s.mu.Unlock()
			return
		}
		due := started.Add(time.Duration(total * int64(time.Second) / int64(bytesPerSecond)))
		if wait := time.Until(due); wait > 0 {
			select {
			case <-s.done:
				return
			case <-time.After(wait):
			}
		}
	}
}

func (s *pacedStream) Drain() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil
	}
	if len(s.buf) > 0 {
		out := s.buf
		s.buf = nil
		return out, nil
	}
	return nil, s.readErr
}

func (s *pacedStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.buf = nil
		s.mu.Unlock()
		close(s.done)
		err = s.src.Close()
	})
	return err
}
