//go:build opus

package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/hraban/opus"
)

var testFormat = audio.Format{SampleRate: 16000, Channels: 1}

// tonePCM returns n samples of a 440 Hz tone as little-endian 16-bit PCM.
func tonePCM(n int) []byte {
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(testFormat.SampleRate)))
		out = binary.LittleEndian.AppendUint16(out, uint16(v))
	}
	return out
}

// splitPackets walks the 2-byte length prefixes and fails on trailing bytes.
func splitPackets(t *testing.T, data []byte) [][]byte {
	t.Helper()
	var packets [][]byte
	for len(data) > 0 {
		if len(data) < 2 {
			t.Fatalf("truncated length prefix: %d bytes left", len(data))
		}
		n := int(binary.BigEndian.Uint16(data))
		if n == 0 || len(data)-2 < n {
			t.Fatalf("bad packet length %d with %d bytes left", n, len(data)-2)
		}
		packets = append(packets, data[2:2+n])
		data = data[2+n:]
	}
	return packets
}

func TestOpusEncoder_CarriesPartialFrame(t *testing.T) {
	enc, err := NewOpusEncoder(testFormat)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	defer enc.Close()

	// One 20 ms frame at 16 kHz mono is 320 samples.
	pcm := tonePCM(640)
	out, err := enc.Encode(pcm[:500])
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no packets for a partial frame, got %d bytes", len(out))
	}

	out, err = enc.Encode(pcm[500:])
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	packets := splitPackets(t, out)
	if len(packets) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(packets))
	}

	dec, err := opus.NewDecoder(testFormat.SampleRate, testFormat.Channels)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	buf := make([]int16, 960)
	for i, p := range packets {
		n, err := dec.Decode(p, buf)
		if err != nil {
			t.Fatalf("packet %d does not decode: %v", i, err)
		}
		if n != 320 {
			t.Fatalf("packet %d decoded to %d samples, want 320", i, n)
		}
	}
}

func TestOpusEncoder_CloseDropsPendingSamples(t *testing.T) {
	enc, err := NewOpusEncoder(testFormat)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	pcm := tonePCM(320)
	if _, err := enc.Encode(pcm[:400]); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	enc.Close()

	out, err := enc.Encode(pcm[400:])
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected pending samples to be dropped, got %d bytes", len(out))
	}
}

func TestOpusEncoder_StereoFrameSize(t *testing.T) {
	enc, err := NewOpusEncoder(audio.Format{SampleRate: 48000, Channels: 2})
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	defer enc.Close()

	// 20 ms of 48 kHz stereo is 960 samples per channel, 1920 interleaved.
	out, err := enc.Encode(make([]byte, 1920*2))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := len(splitPackets(t, out)); got != 1 {
		t.Fatalf("expected 1 packet, got %d", got)
	}
}
