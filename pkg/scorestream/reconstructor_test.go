package scorestream

import (
	"strings"
	"testing"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

const streamHead = `<score-partwise version="4.0">
  <part-list>
    <score-part id="P1">
      <part-name>Piano</part-name>
    </score-part>
  </part-list>`

const measureOne = `
  <part id="P1">
    <measure number="1">
      <attributes>
        <divisions>1</divisions>
        <key><fifths>0</fifths></key>
        <time><beats>4</beats><beat-type>4</beat-type></time>
        <clef><sign>G</sign><line>2</line></clef>
      </attributes>
      <note><rest/><duration>4</duration></note>
    </measure>`

func TestExtractTruncatesTrailingPartialMeasure(t *testing.T) {
	buf := streamHead + measureOne + `
    <measure number="2">
      <note><pitch><step>C</step><octave>4`

	snap, ok := Extract(buf, 0)
	if !ok {
		t.Fatal("Extract() not ok, want a snapshot")
	}
	if snap.Measures != 1 {
		t.Errorf("Measures = %d, want 1", snap.Measures)
	}
	if strings.Contains(snap.XML, `number="2"`) {
		t.Error("snapshot must not contain the incomplete measure 2")
	}
	if !strings.Contains(snap.XML, "</part>") || !strings.HasSuffix(snap.XML, "</score-partwise>") {
		t.Error("snapshot must be closed with synthetic part and root tags")
	}
	if !strings.HasPrefix(snap.XML, "<?xml") {
		t.Error("snapshot must carry an XML declaration")
	}
	if err := musicxml.ValidateString(snap.XML); err != nil {
		t.Errorf("snapshot does not validate: %v", err)
	}
}

func TestExtractGates(t *testing.T) {
	tests := []struct {
		name string
		buf  string
	}{
		{"empty", ""},
		{"prose only", "Here is your waltz, coming right up."},
		{"no part list yet", `<score-partwise version="4.0"><part-list><score-part id="P1">`},
		{"no closed measure", streamHead + `
  <part id="P1">
    <measure number="1">
      <note>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Extract(tt.buf, 0); ok {
				t.Error("Extract() ok, want nothing")
			}
		})
	}
}

func TestExtractDiscardsMalformedPrefix(t *testing.T) {
	// Mismatched tags before the last closed measure: the synthesized
	// document fails to parse and nothing is emitted this cycle.
	buf := streamHead + `
  <part id="P1">
    <measure number="1">
      <note><pitch></note>
    </measure>`
	if _, ok := Extract(buf, 0); ok {
		t.Error("Extract() ok on malformed region, want nothing")
	}
}

func TestExtractWatermarkSuppression(t *testing.T) {
	buf := streamHead + measureOne
	snap, ok := Extract(buf, 0)
	if !ok || snap.Measures != 1 {
		t.Fatalf("Extract() = (%v, %v), want measure 1", snap, ok)
	}
	if _, ok := Extract(buf, 1); ok {
		t.Error("Extract() at same measure count must not re-emit")
	}
}

func TestReconstructorChunkedStream(t *testing.T) {
	spec := musicxml.TemplateSpec{
		Parts: []musicxml.PartSpec{
			{ID: "P1", Name: "Violin"},
			{ID: "P2", Name: "Cello", Clef: "F"},
		},
		Measures: 4,
	}
	score, err := musicxml.NewTemplate(spec)
	if err != nil {
		t.Fatal(err)
	}
	full := "Here is a short duet.\n\n```musicxml\n" + score.String() + "\n```\nEnjoy!"

	r := New()
	var counts []int
	for i := 0; i < len(full); i += 7 {
		end := min(i+7, len(full))
		snap, ok := r.Grow(full[i:end])
		if !ok {
			continue
		}
		if err := musicxml.ValidateString(snap.XML); err != nil {
			t.Fatalf("snapshot at %d measures does not validate: %v", snap.Measures, err)
		}
		counts = append(counts, snap.Measures)
	}

	if len(counts) == 0 {
		t.Fatal("no snapshots emitted")
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] <= counts[i-1] {
			t.Fatalf("measure counts not strictly increasing: %v", counts)
		}
	}
	if counts[len(counts)-1] != 8 {
		t.Errorf("final snapshot measures = %d, want 8 (4 per part)", counts[len(counts)-1])
	}

	// No growth, no emission.
	if _, ok := r.Grow(""); ok {
		t.Error("Grow(\"\") re-emitted on an unchanged buffer")
	}

	final, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if final.MeasureCount() != 4 {
		t.Errorf("final MeasureCount() = %d, want 4", final.MeasureCount())
	}
}

func TestReconstructorMultiPartUneven(t *testing.T) {
	// First part fully closed, second part mid-measure: the snapshot
	// keeps all of P1, the closed prefix of P2, and balances both.
	buf := streamHead + measureOne + `
  </part>
  <part id="P2">
    <measure number="1">
      <note><rest/><duration>4</duration></note>
    </measure>
    <measure number="2">
      <note><pitch><step>G</step>`

	snap, ok := Extract(buf, 0)
	if !ok {
		t.Fatal("Extract() not ok")
	}
	if snap.Measures != 2 {
		t.Errorf("Measures = %d, want 2", snap.Measures)
	}
	s, err := musicxml.ParseString(snap.XML)
	if err != nil {
		t.Fatalf("snapshot parse: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("snapshot validate: %v", err)
	}
	if len(s.Parts()) != 2 {
		t.Errorf("parts = %d, want 2", len(s.Parts()))
	}
	if got := strings.Count(snap.XML, "</part>"); got != 2 {
		t.Errorf("part closers = %d, want 2", got)
	}
}
