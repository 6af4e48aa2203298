package musicxml

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// PartSpec declares one instrument of a template.
type PartSpec struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Abbreviation string `yaml:"abbreviation,omitempty" json:"abbreviation,omitempty"`
	Clef         string `yaml:"clef,omitempty" json:"clef,omitempty"`
	// MIDIProgram is the zero-based General MIDI program number.
	MIDIProgram int `yaml:"midi_program,omitempty" json:"midi_program,omitempty"`
}

// TemplateSpec declares a brand-new empty score.
type TemplateSpec struct {
	Title    string     `yaml:"title,omitempty" json:"title,omitempty"`
	Composer string     `yaml:"composer,omitempty" json:"composer,omitempty"`
	Parts    []PartSpec `yaml:"parts,omitempty" json:"parts,omitempty"`
	Beats    int        `yaml:"beats,omitempty" json:"beats,omitempty"`
	BeatType int        `yaml:"beat_type,omitempty" json:"beat_type,omitempty"`
	// Fifths is the key signature, -7..7.
	Fifths   int `yaml:"fifths,omitempty" json:"fifths,omitempty"`
	Tempo    int `yaml:"tempo,omitempty" json:"tempo,omitempty"`
	Measures int `yaml:"measures,omitempty" json:"measures,omitempty"`
}

func (spec *TemplateSpec) applyDefaults() {
	if spec.Title == "" {
		spec.Title = "Untitled"
	}
	if len(spec.Parts) == 0 {
		spec.Parts = []PartSpec{{
			ID:           "P1",
			Name:         "Piano",
			Abbreviation: "Pno.",
			Clef:         "G",
		}}
	}
	if spec.Beats == 0 {
		spec.Beats = 4
	}
	if spec.BeatType == 0 {
		spec.BeatType = 4
	}
	if spec.Tempo == 0 {
		spec.Tempo = 120
	}
	if spec.Measures == 0 {
		spec.Measures = 4
	}
}

// NewTemplate builds a minimal valid score from spec: one attributes
// block on each part's first measure, every measure filled with
// full-measure rests, a tempo direction on the first part only. The
// result always passes Validate.
func NewTemplate(spec TemplateSpec) (*Score, error) {
	spec.applyDefaults()
	if spec.Fifths < -7 || spec.Fifths > 7 {
		return nil, fmt.Errorf("musicxml: template: fifths %d out of range -7..7", spec.Fifths)
	}
	for i, p := range spec.Parts {
		if p.ID == "" {
			return nil, fmt.Errorf("musicxml: template: part %d has no id", i)
		}
	}

	doc := etree.NewDocument()
	root := doc.CreateElement(RootPartwise)
	root.CreateAttr("version", "4.0")

	work := root.CreateElement("work")
	work.CreateElement("work-title").SetText(spec.Title)

	if spec.Composer != "" {
		ident := root.CreateElement("identification")
		creator := ident.CreateElement("creator")
		creator.CreateAttr("type", "composer")
		creator.SetText(spec.Composer)
	}

	partList := root.CreateElement("part-list")
	for _, p := range spec.Parts {
		scorePart := partList.CreateElement("score-part")
		scorePart.CreateAttr("id", p.ID)
		scorePart.CreateElement("part-name").SetText(p.Name)
		if p.Abbreviation != "" {
			scorePart.CreateElement("part-abbreviation").SetText(p.Abbreviation)
		}

		instID := p.ID + "-I1"
		scoreInst := scorePart.CreateElement("score-instrument")
		scoreInst.CreateAttr("id", instID)
		scoreInst.CreateElement("instrument-name").SetText(p.Name)

		midiInst := scorePart.CreateElement("midi-instrument")
		midiInst.CreateAttr("id", instID)
		midiInst.CreateElement("midi-channel").SetText("1")
		// MusicXML midi-program is 1-indexed.
		midiInst.CreateElement("midi-program").SetText(strconv.Itoa(p.MIDIProgram + 1))
	}

	for partIdx, p := range spec.Parts {
		part := root.CreateElement("part")
		part.CreateAttr("id", p.ID)
		clef := ClefInfo(p.Clef)

		for m := 1; m <= spec.Measures; m++ {
			measure := part.CreateElement("measure")
			measure.CreateAttr("number", strconv.Itoa(m))

			if m == 1 {
				attrs := measure.CreateElement("attributes")
				attrs.CreateElement("divisions").SetText("1")
				key := attrs.CreateElement("key")
				key.CreateElement("fifths").SetText(strconv.Itoa(spec.Fifths))
				time := attrs.CreateElement("time")
				time.CreateElement("beats").SetText(strconv.Itoa(spec.Beats))
				time.CreateElement("beat-type").SetText(strconv.Itoa(spec.BeatType))
				clefEl := attrs.CreateElement("clef")
				clefEl.CreateElement("sign").SetText(clef.Sign)
				clefEl.CreateElement("line").SetText(clef.Line)

				if partIdx == 0 {
					direction := measure.CreateElement("direction")
					direction.CreateAttr("placement", "above")
					metronome := direction.CreateElement("direction-type").CreateElement("metronome")
					metronome.CreateElement("beat-unit").SetText("quarter")
					metronome.CreateElement("per-minute").SetText(strconv.Itoa(spec.Tempo))
					sound := direction.CreateElement("sound")
					sound.CreateAttr("tempo", strconv.Itoa(spec.Tempo))
				}
			}

			for i := 0; i < spec.Beats; i++ {
				note := measure.CreateElement("note")
				note.CreateElement("rest")
				note.CreateElement("duration").SetText("1")
				note.CreateElement("type").SetText("quarter")
			}
		}
	}

	doc.Indent(2)
	body, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("musicxml: template: %w", err)
	}
	out := Declaration + "\n" + Doctype + "\n" + body

	score, err := ParseString(out)
	if err != nil {
		return nil, err
	}
	if err := score.Validate(); err != nil {
		return nil, err
	}
	return score, nil
}
