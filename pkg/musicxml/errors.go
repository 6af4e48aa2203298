package musicxml

import (
	"errors"
	"fmt"
)

var errNoRoot = errors.New("document has no root element")

// SyntaxError reports input that does not parse as XML. It carries the
// underlying parser diagnostic.
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("musicxml: XML syntax error: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// SchemaError reports a document that parses but violates the minimal
// structural contract a renderer requires. PartID is set when the rule
// concerns a specific part.
type SchemaError struct {
	Reason string
	PartID string
}

func (e *SchemaError) Error() string {
	return "musicxml: " + e.Reason
}

// EditConflictError reports a merge or excerpt whose preconditions do not
// hold. It is never retried automatically.
type EditConflictError struct {
	Op     string
	Reason string
}

func (e *EditConflictError) Error() string {
	return fmt.Sprintf("musicxml: %s: %s", e.Op, e.Reason)
}
