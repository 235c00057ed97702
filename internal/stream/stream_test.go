package stream

import (
	"errors"
	"testing"

	"github.com/foxseedlab/kikitori/internal/transcript"
)

func TestParseFrame_Interim(t *testing.T) {
	seg, err := ParseFrame([]byte(`{"type":"interim","text":"halo sem"}`), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.Kind != transcript.KindInterim || seg.OriginalText != "halo sem" || seg.Seq != 3 {
		t.Fatalf("unexpected segment: %+v", seg)
	}
}

func TestParseFrame_Final(t *testing.T) {
	seg, err := ParseFrame([]byte(`{"type":"final","original":"halo semua","translated":"hello everyone"}`), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := transcript.Final(4, "halo semua", "hello everyone")
	if seg != want {
		t.Fatalf("unexpected segment: %+v", seg)
	}
}

func TestParseFrame_FinalAllowsEmptyStrings(t *testing.T) {
	seg, err := ParseFrame([]byte(`{"type":"final","original":"","translated":""}`), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.Kind != transcript.KindFinal {
		t.Fatalf("unexpected kind: %s", seg.Kind)
	}
}

func TestParseFrame_Malformed(t *testing.T) {
	cases := map[string]string{
		"invalid json":       `{"type":`,
		"not an object":      `"final"`,
		"missing type":       `{"text":"x"}`,
		"unknown type":       `{"type":"partial","text":"x"}`,
		"interim no text":    `{"type":"interim"}`,
		"final no translate": `{"type":"final","original":"x"}`,
		"text wrong type":    `{"type":"interim","text":42}`,
	}
	for name, raw := range cases {
		if _, err := ParseFrame([]byte(raw), 1); !errors.Is(err, ErrMalformedFrame) {
			t.Fatalf("%s: expected ErrMalformedFrame, got %v", name, err)
		}
	}
}
