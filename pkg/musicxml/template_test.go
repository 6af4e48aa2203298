package musicxml

import (
	"strings"
	"testing"
)

func mustTemplate(t *testing.T, spec TemplateSpec) *Score {
	t.Helper()
	s, err := NewTemplate(spec)
	if err != nil {
		t.Fatalf("NewTemplate() error: %v", err)
	}
	return s
}

func TestNewTemplateDefaults(t *testing.T) {
	s := mustTemplate(t, TemplateSpec{})

	if err := s.Validate(); err != nil {
		t.Fatalf("template does not validate: %v", err)
	}
	if got := s.MeasureCount(); got != 4 {
		t.Errorf("MeasureCount() = %d, want 4", got)
	}

	info := s.Info()
	if info.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", info.Title)
	}
	if info.Time != "4/4" {
		t.Errorf("Time = %q, want 4/4", info.Time)
	}
	if info.Key != "C" {
		t.Errorf("Key = %q, want C", info.Key)
	}
	if len(info.Parts) != 1 || info.Parts[0].ID != "P1" {
		t.Errorf("Parts = %v, want single P1", info.Parts)
	}
}

func TestNewTemplateMultiPart(t *testing.T) {
	spec := TemplateSpec{
		Title:    "Duo",
		Composer: "Anon",
		Parts: []PartSpec{
			{ID: "P1", Name: "Violin", Clef: "G"},
			{ID: "P2", Name: "Cello", Clef: "F", MIDIProgram: 42},
		},
		Beats:    3,
		BeatType: 4,
		Fifths:   2,
		Tempo:    90,
		Measures: 8,
	}
	s := mustTemplate(t, spec)

	if len(s.Parts()) != 2 {
		t.Fatalf("parts = %d, want 2", len(s.Parts()))
	}
	for _, p := range s.Parts() {
		ms := Measures(p)
		if len(ms) != 8 {
			t.Errorf("part %s measures = %d, want 8", p.SelectAttrValue("id", ""), len(ms))
		}
		// Full-measure rests match the numerator.
		if notes := ms[1].SelectElements("note"); len(notes) != 3 {
			t.Errorf("measure 2 notes = %d, want 3", len(notes))
		}
	}

	// Tempo direction on the first part only.
	first := Measures(s.Parts()[0])[0]
	second := Measures(s.Parts()[1])[0]
	if first.SelectElement("direction") == nil {
		t.Error("first part measure 1 is missing the tempo direction")
	}
	if second.SelectElement("direction") != nil {
		t.Error("second part measure 1 should not carry a tempo direction")
	}

	// MIDI program is 1-indexed in the document.
	out := s.String()
	if !strings.Contains(out, "<midi-program>43</midi-program>") {
		t.Error("midi-program for cello should be 43")
	}
	if !strings.Contains(out, Doctype) {
		t.Error("template output should carry the MusicXML doctype")
	}
}

func TestNewTemplateBadSpec(t *testing.T) {
	if _, err := NewTemplate(TemplateSpec{Fifths: 12}); err == nil {
		t.Error("fifths out of range should fail")
	}
	if _, err := NewTemplate(TemplateSpec{Parts: []PartSpec{{Name: "NoID"}}}); err == nil {
		t.Error("part without id should fail")
	}
}

func TestNewTemplateRoundTrips(t *testing.T) {
	s := mustTemplate(t, TemplateSpec{Measures: 2})
	reparsed, err := ParseString(s.String())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if err := reparsed.Validate(); err != nil {
		t.Fatalf("reparsed template does not validate: %v", err)
	}
	if reparsed.MeasureCount() != 2 {
		t.Errorf("MeasureCount() = %d, want 2", reparsed.MeasureCount())
	}
}
