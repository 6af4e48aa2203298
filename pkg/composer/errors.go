package composer

import (
	"errors"
	"io"
)

var (
	// errEndOfStream is the terminal error after a normal completion.
	errEndOfStream = io.EOF

	errAbandoned = errors.New("composer: event stream closed")
)

// UpstreamError attributes a failure to the generative text source. The
// wrapped error passes through untouched.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "composer: upstream: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }
