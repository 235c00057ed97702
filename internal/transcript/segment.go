package transcript

type Kind string

const (
	KindInterim Kind = "interim"
	KindFinal   Kind = "final"
)

// Segment is one recognized unit of speech. Seq is the arrival sequence number
// assigned by the stream client, starting at 1.
type Segment struct {
	Seq            uint64
	Kind           Kind
	OriginalText   string
	TranslatedText string
}

func Interim(seq uint64, text string) Segment {
	return Segment{Seq: seq, Kind: KindInterim, OriginalText: text}
}

func Final(seq uint64, original, translated string) Segment {
	return Segment{Seq: seq, Kind: KindFinal, OriginalText: original, TranslatedText: translated}
}
