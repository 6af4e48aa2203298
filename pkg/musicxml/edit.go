package musicxml

import (
	"fmt"

	"github.com/beevik/etree"
)

// Merge splices addition's measures into base, part by part, and returns
// a new document. Neither input is mutated.
//
// at == 0 appends: each addition part's measures go after the matching
// base part's last measure, renumbered to continue the sequence. at >= 1
// is the 1-based splice position: the addition's measures are renumbered
// from at, inserted there, and every base measure at or after that
// position shifts up by the addition's length, keeping numbering
// contiguous.
//
// Parts present only in addition are ignored: merge augments existing
// instrumentation, it does not introduce new instruments. The part-list
// is left untouched.
func Merge(base, addition *Score, at int) (*Score, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if err := addition.Validate(); err != nil {
		return nil, err
	}
	if !base.Partwise() || !addition.Partwise() {
		return nil, &EditConflictError{Op: "merge", Reason: "only part-major (score-partwise) documents can be edited"}
	}
	if at < 0 {
		return nil, &EditConflictError{Op: "merge", Reason: fmt.Sprintf("invalid splice position %d", at)}
	}

	out := base.Clone()
	add := addition.Clone()

	for _, addPart := range add.Parts() {
		id := addPart.SelectAttrValue("id", "")
		basePart := out.Part(id)
		if basePart == nil {
			continue
		}

		addMeasures := Measures(addPart)
		baseMeasures := Measures(basePart)

		var order []*etree.Element
		if at == 0 {
			start := len(baseMeasures) + 1
			for i, m := range addMeasures {
				setMeasureNumber(m, start+i)
			}
			order = append(baseMeasures, addMeasures...)
		} else {
			if at > len(baseMeasures)+1 {
				return nil, &EditConflictError{
					Op: "merge",
					Reason: fmt.Sprintf("splice position %d beyond part '%s' with %d measures",
						at, id, len(baseMeasures)),
				}
			}
			for i, m := range addMeasures {
				setMeasureNumber(m, at+i)
			}
			for i, m := range baseMeasures[at-1:] {
				setMeasureNumber(m, at+len(addMeasures)+i)
			}
			order = append(order, baseMeasures[:at-1]...)
			order = append(order, addMeasures...)
			order = append(order, baseMeasures[at-1:]...)
		}

		rebuildMeasures(basePart, order)
	}

	return out, nil
}

// Excerpt extracts the inclusive 1-based measure range [start, end] from
// every part and renumbers the survivors contiguously from 1. The source
// is not mutated. An empty resulting part is an edit conflict, distinct
// from any parse failure.
func Excerpt(source *Score, start, end int) (*Score, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if !source.Partwise() {
		return nil, &EditConflictError{Op: "excerpt", Reason: "only part-major (score-partwise) documents can be edited"}
	}
	if start < 1 || start > end {
		return nil, &EditConflictError{Op: "excerpt", Reason: fmt.Sprintf("invalid measure range %d-%d", start, end)}
	}

	out := source.Clone()
	for _, part := range out.Parts() {
		var kept []*etree.Element
		for _, m := range Measures(part) {
			n, err := measureNumber(m)
			if err != nil {
				return nil, err
			}
			if n >= start && n <= end {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			id := part.SelectAttrValue("id", "unknown")
			return nil, &EditConflictError{
				Op:     "excerpt",
				Reason: fmt.Sprintf("part '%s' has no measures in range %d-%d", id, start, end),
			}
		}
		for i, m := range kept {
			setMeasureNumber(m, i+1)
		}
		rebuildMeasures(part, kept)
	}

	return out, nil
}

// rebuildMeasures replaces part's measure children with order, keeping any
// non-measure children ahead of them.
func rebuildMeasures(part *etree.Element, order []*etree.Element) {
	for _, m := range Measures(part) {
		part.RemoveChild(m)
	}
	for _, m := range order {
		part.AddChild(m)
	}
}
