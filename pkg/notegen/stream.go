package notegen

import (
	"errors"
	"sync"
)

// ErrStreamClosed is returned when adding to or reading from a stream
// that was torn down.
var ErrStreamClosed = errors.New("notegen: stream closed")

// Stream delivers generation output chunk by chunk. Next returns a
// *State error when the generation reaches a terminal condition.
type Stream interface {
	Next() (*Chunk, error)
	Close() error
}

type streamEvent struct {
	chunk *Chunk
	state *State
}

// StreamBuilder is the producer side of a Stream. A backend puller
// goroutine Adds chunks and finishes with exactly one terminal call
// (Done, Truncated, Blocked, Unexpected, or Abort).
type StreamBuilder struct {
	events chan streamEvent
	quit   chan struct{} // closed when the consumer tears the stream down
	term   chan struct{} // closed once a terminal event is queued
	qonce  sync.Once
	tonce  sync.Once
}

func NewStreamBuilder(size int) *StreamBuilder {
	return &StreamBuilder{
		events: make(chan streamEvent, size),
		quit:   make(chan struct{}),
		term:   make(chan struct{}),
	}
}

// Add queues one chunk of text. It blocks when the consumer lags and
// fails once the stream is terminal or torn down.
func (sb *StreamBuilder) Add(text string) error {
	select {
	case <-sb.term:
		return ErrStreamClosed
	default:
	}
	select {
	case <-sb.quit:
		return ErrStreamClosed
	case sb.events <- streamEvent{chunk: &Chunk{Text: text}}:
		return nil
	}
}

func (sb *StreamBuilder) terminal(st *State) error {
	err := ErrStreamClosed
	sb.tonce.Do(func() {
		select {
		case <-sb.quit:
		case sb.events <- streamEvent{state: st}:
			err = nil
		}
		close(sb.term)
	})
	return err
}

func (sb *StreamBuilder) Done(stats Usage) error {
	return sb.terminal(Done(stats))
}

func (sb *StreamBuilder) Truncated(stats Usage) error {
	return sb.terminal(Truncated(stats))
}

func (sb *StreamBuilder) Blocked(stats Usage, refusal string) error {
	return sb.terminal(Blocked(stats, refusal))
}

func (sb *StreamBuilder) Unexpected(stats Usage, err error) error {
	return sb.terminal(Error(stats, err))
}

// Abort terminates the stream with a backend failure.
func (sb *StreamBuilder) Abort(err error) error {
	return sb.terminal(Error(Usage{}, err))
}

// Stream returns the consumer side.
func (sb *StreamBuilder) Stream() Stream {
	return &stream{sb: sb}
}

func (sb *StreamBuilder) teardown() {
	sb.qonce.Do(func() { close(sb.quit) })
}

type stream struct {
	sb  *StreamBuilder
	err error
}

func (s *stream) Next() (*Chunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	select {
	case ev := <-s.sb.events:
		if ev.chunk != nil {
			return ev.chunk, nil
		}
		s.err = ev.state
		s.sb.teardown()
		return nil, s.err
	case <-s.sb.quit:
		s.err = ErrStreamClosed
		return nil, s.err
	}
}

func (s *stream) Close() error {
	s.sb.teardown()
	if s.err == nil {
		s.err = ErrStreamClosed
	}
	return nil
}
