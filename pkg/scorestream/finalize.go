package scorestream

import (
	"errors"
	"strings"

	"github.com/maestoso/scorekit/pkg/musicxml"
)

// ErrNoDocument reports a finished stream that contains no usable score
// document at all.
var ErrNoDocument = errors.New("scorestream: no score document in stream")

// Finalize extracts the finished document from the complete buffer.
//
// The fenced block is preferred; failing that, the raw span from the
// root open tag to its close. The candidate must pass the structural
// validator. If it does not, Finalize proactively retries with a
// synthesized header and balanced containers (the streaming extraction
// over the full text) before surfacing the original failure.
func Finalize(buf string) (*musicxml.Score, error) {
	text, ok := ExtractFenced(buf)
	if !ok {
		start := strings.Index(buf, rootOpen)
		if start < 0 {
			return nil, ErrNoDocument
		}
		text = buf[start:]
		if end := strings.LastIndex(text, rootClose); end >= 0 {
			text = text[:end+len(rootClose)]
		}
	}

	score, err := musicxml.ParseString(text)
	if err == nil {
		if verr := score.Validate(); verr == nil {
			return score, nil
		} else {
			err = verr
		}
	}

	// Fallback: the stream may have stopped mid-measure or before the
	// closing tags. The best balanced prefix is still a usable document.
	if snap, ok := Extract(text, 0); ok {
		if fallback, perr := musicxml.ParseString(snap.XML); perr == nil {
			if fallback.Validate() == nil {
				return fallback, nil
			}
		}
	}
	return nil, err
}
