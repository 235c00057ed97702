package transcript

import "testing"

func TestAggregator_FinalsConcatenateInArrivalOrder(t *testing.T) {
	a := NewAggregator()
	a.Apply(Final(1, "Hello", "Halo"))
	a.Apply(Final(2, "world", "dunia"))

	if got := a.Original(); got != "Hello world " {
		t.Fatalf("unexpected original: %q", got)
	}
	if got := a.Translated(); got != "Halo dunia " {
		t.Fatalf("unexpected translated: %q", got)
	}
	if a.FinalCount() != 2 {
		t.Fatalf("expected 2 finals, got %d", a.FinalCount())
	}
}

func TestAggregator_InterimReplacesPreviewOnly(t *testing.T) {
	a := NewAggregator()
	a.Apply(Final(1, "one", "satu"))
	beforeOriginal, beforeTranslated := a.Original(), a.Translated()

	a.Apply(Interim(2, "tw"))
	a.Apply(Interim(3, "two"))

	if got := a.Preview(); got != "two" {
		t.Fatalf("expected preview to be replaced, got %q", got)
	}
	if a.Original() != beforeOriginal || a.Translated() != beforeTranslated {
		t.Fatalf("interim mutated buffers: %q / %q", a.Original(), a.Translated())
	}
}

func TestAggregator_FinalResetsPreview(t *testing.T) {
	a := NewAggregator()
	if a.Preview() != IdlePreview {
		t.Fatalf("unexpected initial preview: %q", a.Preview())
	}
	a.Apply(Interim(1, "partial"))
	a.Apply(Final(2, "partial words", "kata"))
	if a.Preview() != IdlePreview {
		t.Fatalf("expected preview reset, got %q", a.Preview())
	}
}

func TestAggregator_IgnoresReplayedSegments(t *testing.T) {
	a := NewAggregator()
	seg := Final(1, "once", "sekali")
	if !a.Apply(seg) {
		t.Fatal("expected first apply to succeed")
	}
	if a.Apply(seg) {
		t.Fatal("expected replay to be ignored")
	}
	if a.Apply(Interim(1, "stale")) {
		t.Fatal("expected stale interim to be ignored")
	}
	if got := a.Original(); got != "once " {
		t.Fatalf("unexpected original after replay: %q", got)
	}
	if a.Preview() != IdlePreview {
		t.Fatalf("stale interim changed preview: %q", a.Preview())
	}
}

func TestAggregator_IgnoresUnknownKind(t *testing.T) {
	a := NewAggregator()
	if a.Apply(Segment{Seq: 1, Kind: "noise", OriginalText: "x"}) {
		t.Fatal("expected unknown kind to be ignored")
	}
	if !a.Apply(Final(1, "a", "b")) {
		t.Fatal("unknown kind must not consume the sequence number")
	}
}

func TestAggregator_EmptyFinalStillAppendsSeparator(t *testing.T) {
	a := NewAggregator()
	a.Apply(Final(1, "", ""))
	if got := a.Original(); got != " " {
		t.Fatalf("unexpected original: %q", got)
	}
}
