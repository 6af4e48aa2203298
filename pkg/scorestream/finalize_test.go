package scorestream

import (
	"errors"
	"testing"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

func TestExtractFenced(t *testing.T) {
	doc := "<score-partwise version=\"4.0\"></score-partwise>"

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"musicxml fence", "Sure!\n```musicxml\n" + doc + "\n```\nDone.", doc, true},
		{"xml fence with score root", "```xml\n" + doc + "\n```", doc, true},
		{"xml fence without score root", "```xml\n<config/>\n```", "", false},
		{"no fence", "just prose", "", false},
		{"musicxml wins over xml", "```xml\n<config/>\n```\n```musicxml\n" + doc + "\n```", doc, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFenced(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractFenced() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFinalizeComplete(t *testing.T) {
	score, err := musicxml.NewTemplate(musicxml.TemplateSpec{Measures: 3})
	if err != nil {
		t.Fatal(err)
	}
	buf := "Here you go.\n```musicxml\n" + score.String() + "\n```"

	final, err := Finalize(buf)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if final.MeasureCount() != 3 {
		t.Errorf("MeasureCount() = %d, want 3", final.MeasureCount())
	}
}

func TestFinalizeRawWithoutFence(t *testing.T) {
	score, err := musicxml.NewTemplate(musicxml.TemplateSpec{Measures: 2})
	if err != nil {
		t.Fatal(err)
	}
	buf := "Model forgot the fences.\n" + score.String()

	final, err := Finalize(buf)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if final.MeasureCount() != 2 {
		t.Errorf("MeasureCount() = %d, want 2", final.MeasureCount())
	}
}

func TestFinalizeBalancesTruncatedStream(t *testing.T) {
	// The stream was cut off mid-measure with no closing tags at all.
	buf := "```musicxml\n" + streamHead + measureOne + `
    <measure number="2">
      <note><rest/>`

	final, err := Finalize(buf)
	if err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
	if final.MeasureCount() != 1 {
		t.Errorf("MeasureCount() = %d, want 1 (balanced prefix)", final.MeasureCount())
	}
}

func TestFinalizeNoDocument(t *testing.T) {
	_, err := Finalize("I can't write that piece, sorry.")
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("Finalize() = %v, want ErrNoDocument", err)
	}
}

func TestFinalizeSurfacesSchemaError(t *testing.T) {
	buf := "```musicxml\n<score-partwise><part-list></part-list></score-partwise>\n```"
	_, err := Finalize(buf)
	var se *musicxml.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Finalize() = %T (%v), want *SchemaError", err, err)
	}
}
