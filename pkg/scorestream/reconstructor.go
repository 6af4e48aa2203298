// Package scorestream reconstructs renderable MusicXML from a growing
// model-output buffer.
//
// While a generation is in flight the buffer holds an arbitrarily
// truncated document: open tags, half-written attributes, a measure cut
// mid-note. Extract produces the longest well-formed prefix that a
// renderer can display — everything confirmed complete so far, closed
// with synthetic container tags. On stream completion Finalize pulls the
// finished document out of the buffer and runs it through the validator,
// with a balancing fallback for streams that stopped short.
package scorestream

import (
	"strings"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

const (
	rootOpen      = "<" + musicxml.RootPartwise
	rootClose     = "</" + musicxml.RootPartwise + ">"
	partListClose = "</part-list>"
	measureClose  = "</measure>"
)

// Snapshot is an ephemeral, self-contained document built from a prefix
// of the stream. Each snapshot independently parses; superseded
// snapshots are simply discarded.
type Snapshot struct {
	XML      string
	Measures int
}

// Extract computes the best renderable prefix of buf. lastMeasures is
// the measure count of the previous accepted snapshot; extraction
// reports ok only when it can improve on it, so re-running on an
// unchanged buffer never re-emits.
//
// The steps, in order: require the root open tag, a complete
// <part-list>, and at least one closed measure; slice from the root open
// tag; truncate after the LAST </measure>, discarding any trailing
// partial measure or dangling fragment; close the still-open <part>
// containers and the root; prepend the XML declaration; re-parse. A
// parse failure means truncation landed inside a malformed region — not
// an error, just not ready this cycle.
func Extract(buf string, lastMeasures int) (Snapshot, bool) {
	start := strings.Index(buf, rootOpen)
	if start < 0 {
		return Snapshot{}, false
	}
	// A renderer cannot display anything without the part declarations.
	if !strings.Contains(buf, partListClose) {
		return Snapshot{}, false
	}

	partial := buf[start:]
	last := strings.LastIndex(partial, measureClose)
	if last < 0 {
		return Snapshot{}, false
	}
	partial = partial[:last+len(measureClose)]

	openParts := strings.Count(partial, "<part ") + strings.Count(partial, "<part>") -
		strings.Count(partial, "</part>")

	var sb strings.Builder
	sb.Grow(len(partial) + 64)
	sb.WriteString(partial)
	for i := 0; i < openParts; i++ {
		sb.WriteString("\n  </part>")
	}
	sb.WriteString("\n")
	sb.WriteString(rootClose)

	text := sb.String()
	if !strings.HasPrefix(text, "<?xml") {
		text = musicxml.Declaration + "\n" + text
	}

	if _, err := musicxml.ParseString(text); err != nil {
		return Snapshot{}, false
	}

	measures := strings.Count(text, measureClose)
	if measures <= lastMeasures {
		return Snapshot{}, false
	}
	return Snapshot{XML: text, Measures: measures}, true
}

// Reconstructor owns one generation's stream buffer and emission
// watermark. One instance per in-flight generation; a session has a
// single writer, so no locking.
type Reconstructor struct {
	buf      strings.Builder
	measures int
}

// New creates an empty Reconstructor.
func New() *Reconstructor {
	return &Reconstructor{}
}

// Grow appends chunk to the buffer and attempts a snapshot. It returns
// ok only when the snapshot's measure count strictly exceeds the
// previous emission's.
func (r *Reconstructor) Grow(chunk string) (Snapshot, bool) {
	r.buf.WriteString(chunk)
	snap, ok := Extract(r.buf.String(), r.measures)
	if !ok {
		return Snapshot{}, false
	}
	r.measures = snap.Measures
	return snap, true
}

// Buffer returns the accumulated raw text.
func (r *Reconstructor) Buffer() string {
	return r.buf.String()
}

// Measures returns the watermark: the measure count of the last emitted
// snapshot.
func (r *Reconstructor) Measures() int {
	return r.measures
}

// Finalize runs the complete buffer through final-document extraction
// and validation.
func (r *Reconstructor) Finalize() (*musicxml.Score, error) {
	return Finalize(r.buf.String())
}
