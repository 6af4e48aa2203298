// Package musicxml holds the in-memory score document model along with the
// structural validator, the measure-level editor, the key/clef lookup
// tables, and the score template builder.
//
// A Score wraps an element tree of a MusicXML document. Parsing and
// serialization preserve semantic content: attribute and child order are
// kept, output is pretty-printed with stable two-space indentation.
// Reads never mutate the tree.
package musicxml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const (
	// RootPartwise is the part-major root element. Only part-major
	// documents are supported by the structural editor.
	RootPartwise = "score-partwise"

	// RootTimewise is the time-major root element. Accepted by the
	// validator, rejected by the editor.
	RootTimewise = "score-timewise"

	// Declaration is the standard XML declaration prepended to
	// synthesized documents.
	Declaration = `<?xml version="1.0" encoding="UTF-8"?>`

	// Doctype is the MusicXML 4.0 partwise document type declaration.
	Doctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`
)

// Score is a parsed MusicXML document.
type Score struct {
	doc *etree.Document
}

// Parse parses src into a Score. A failure is reported as *SyntaxError
// with the parser diagnostic attached.
func Parse(src []byte) (*Score, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(src); err != nil {
		return nil, &SyntaxError{Err: err}
	}
	if doc.Root() == nil {
		return nil, &SyntaxError{Err: errNoRoot}
	}
	return &Score{doc: doc}, nil
}

// ParseString is Parse for string input.
func ParseString(src string) (*Score, error) {
	return Parse([]byte(src))
}

// Root returns the document's root element.
func (s *Score) Root() *etree.Element {
	return s.doc.Root()
}

// Partwise reports whether the document uses the part-major ordering.
func (s *Score) Partwise() bool {
	return s.Root().Tag == RootPartwise
}

// PartList returns the <part-list> element, or nil.
func (s *Score) PartList() *etree.Element {
	return s.Root().SelectElement("part-list")
}

// Parts returns the <part> elements in document order.
func (s *Score) Parts() []*etree.Element {
	return s.Root().SelectElements("part")
}

// Part returns the <part> with the given id, or nil.
func (s *Score) Part(id string) *etree.Element {
	for _, p := range s.Parts() {
		if p.SelectAttrValue("id", "") == id {
			return p
		}
	}
	return nil
}

// Measures returns the <measure> elements of part in document order.
func Measures(part *etree.Element) []*etree.Element {
	return part.SelectElements("measure")
}

// MeasureCount returns the measure count of the first part, or 0.
func (s *Score) MeasureCount() int {
	parts := s.Parts()
	if len(parts) == 0 {
		return 0
	}
	return len(Measures(parts[0]))
}

// Clone returns a deep copy of the score.
func (s *Score) Clone() *Score {
	return &Score{doc: s.doc.Copy()}
}

// String serializes the score with the XML declaration and stable
// two-space indentation.
func (s *Score) String() string {
	doc := s.doc.Copy()
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		out = Declaration + "\n" + out
	}
	return out
}

// Bytes is String as a byte slice.
func (s *Score) Bytes() []byte {
	return []byte(s.String())
}

func measureNumber(m *etree.Element) (int, error) {
	raw := m.SelectAttrValue("number", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &SchemaError{Reason: "measure has no usable number attribute: " + strconv.Quote(raw)}
	}
	return n, nil
}

func setMeasureNumber(m *etree.Element, n int) {
	m.CreateAttr("number", strconv.Itoa(n))
}
