package musicxml

import "fmt"

// PartInfo identifies one declared part.
type PartInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Info is the score metadata surfaced to users and tooling.
type Info struct {
	Title    string     `json:"title,omitempty"`
	Composer string     `json:"composer,omitempty"`
	Parts    []PartInfo `json:"parts"`
	Measures int        `json:"measures"`
	Key      string     `json:"key,omitempty"`
	Time     string     `json:"time_signature,omitempty"`
}

// Info extracts basic metadata: title, composer, declared parts, measure
// count of the first part, and the key and time signature of the first
// measure.
func (s *Score) Info() Info {
	var info Info

	if t := s.doc.FindElement("//work-title"); t != nil {
		info.Title = t.Text()
	}
	if c := s.doc.FindElement("//creator[@type='composer']"); c != nil {
		info.Composer = c.Text()
	}

	for _, sp := range s.doc.FindElements("//score-part") {
		name := "Unnamed"
		if n := sp.SelectElement("part-name"); n != nil {
			name = n.Text()
		}
		info.Parts = append(info.Parts, PartInfo{
			ID:   sp.SelectAttrValue("id", ""),
			Name: name,
		})
	}

	info.Measures = s.MeasureCount()

	if first := s.doc.FindElement("//measure"); first != nil {
		if f := first.FindElement(".//fifths"); f != nil {
			var fifths int
			if _, err := fmt.Sscanf(f.Text(), "%d", &fifths); err == nil {
				info.Key = KeyName(fifths, ModeMajor)
			}
		}
		if t := first.FindElement(".//time"); t != nil {
			beats := t.SelectElement("beats")
			beatType := t.SelectElement("beat-type")
			if beats != nil && beatType != nil {
				info.Time = beats.Text() + "/" + beatType.Text()
			}
		}
	}

	return info
}
