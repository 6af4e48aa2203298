package composer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/maestoso/scorekit/pkg/notegen"
	"github.com/maestoso/scorekit/pkg/scorestream"
)

// Session is one user's conversation with the composition assistant. A
// session is single-writer: the boundary layer drives one request at a
// time, so the session itself holds no locks. Each in-flight generation
// owns its own stream reconstructor; nothing is shared across requests.
type Session struct {
	ID string

	gen     notegen.Generator
	params  *notegen.Params
	history []*notegen.Message
}

// NewSession creates a session backed by gen.
func NewSession(gen notegen.Generator) *Session {
	return &Session{
		ID:  uuid.NewString(),
		gen: gen,
	}
}

// SetParams overrides sampling parameters for subsequent requests.
func (s *Session) SetParams(p *notegen.Params) { s.params = p }

// Reset clears the conversation history for a new piece.
func (s *Session) Reset() {
	s.history = nil
}

func (s *Session) modelContext() *notegen.Context {
	return &notegen.Context{
		System:   systemPrompt,
		Messages: s.history,
		Params:   s.params,
	}
}

// Reply is the outcome of a non-streaming chat turn.
type Reply struct {
	// Text is the model's full reply.
	Text string
	// XML is the extracted score document, empty when the reply carried
	// none. It is extracted, not validated; callers that need the
	// structural guarantee run it through musicxml.Validate.
	XML string
}

// Chat sends one turn and waits for the complete reply.
func (s *Session) Chat(ctx context.Context, request, scoreXML string, sel *Selection) (*Reply, error) {
	s.history = append(s.history, &notegen.Message{
		Role: notegen.RoleUser,
		Text: buildUserMessage(request, scoreXML, sel),
	})

	stream, err := s.gen.GenerateStream(ctx, s.modelContext())
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Next()
		if err != nil {
			if errors.Is(err, notegen.ErrDone) {
				break
			}
			var st *notegen.State
			if errors.As(err, &st) && st.Status() == notegen.StatusTruncated {
				slog.Warn("composer/session: reply truncated", "id", s.ID)
				break
			}
			return nil, &UpstreamError{Err: err}
		}
		sb.WriteString(chunk.Text)
	}

	text := sb.String()
	s.history = append(s.history, &notegen.Message{Role: notegen.RoleModel, Text: text})

	reply := &Reply{Text: text}
	if xml, ok := scorestream.ExtractFenced(text); ok {
		reply.XML = xml
	}
	return reply, nil
}

// ChatStream sends one turn and returns the live event stream: zero or
// more text/partial events followed by exactly one complete event.
func (s *Session) ChatStream(ctx context.Context, request, scoreXML string, sel *Selection) (*EventStream, error) {
	s.history = append(s.history, &notegen.Message{
		Role: notegen.RoleUser,
		Text: buildUserMessage(request, scoreXML, sel),
	})

	stream, err := s.gen.GenerateStream(ctx, s.modelContext())
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	es := newEventStream()
	go s.pump(stream, es)
	return es, nil
}

// pump drains the generation stream, feeding each increment to the
// reconstructor. A growth event either yields a new renderable snapshot
// (partial event) or plain text progress.
func (s *Session) pump(stream notegen.Stream, es *EventStream) {
	defer stream.Close()

	r := scorestream.New()
	for {
		chunk, err := stream.Next()
		if err != nil {
			var st *notegen.State
			switch {
			case errors.Is(err, notegen.ErrDone):
			case errors.As(err, &st) && st.Status() == notegen.StatusTruncated:
				slog.Warn("composer/session: stream truncated, finalizing best effort", "id", s.ID)
			default:
				es.fail(&UpstreamError{Err: err})
				return
			}
			break
		}
		if snap, ok := r.Grow(chunk.Text); ok {
			if !es.send(&Event{Type: EventPartial, XML: snap.XML, Measures: snap.Measures}) {
				return
			}
		} else {
			if !es.send(&Event{Type: EventText, Text: chunk.Text}) {
				return
			}
		}
	}

	text := r.Buffer()
	s.history = append(s.history, &notegen.Message{Role: notegen.RoleModel, Text: text})

	complete := &Event{Type: EventComplete, Text: text}
	if score, err := r.Finalize(); err == nil {
		complete.XML = score.String()
		complete.Measures = score.MeasureCount()
	} else if !errors.Is(err, scorestream.ErrNoDocument) {
		slog.Warn("composer/session: final document unusable", "id", s.ID, "err", err)
	}
	if es.send(complete) {
		es.finish()
	}
}

// EventStream delivers compose events in order. Next returns io.EOF
// after the complete event. Close abandons the stream; the pump notices
// and stops with no further cleanup obligations.
type EventStream struct {
	ch   chan eventMsg
	quit chan struct{}
	once sync.Once
	err  error
}

type eventMsg struct {
	ev  *Event
	err error
}

func newEventStream() *EventStream {
	return &EventStream{
		ch:   make(chan eventMsg, 8),
		quit: make(chan struct{}),
	}
}

func (es *EventStream) send(ev *Event) bool {
	select {
	case es.ch <- eventMsg{ev: ev}:
		return true
	case <-es.quit:
		return false
	}
}

func (es *EventStream) fail(err error) {
	select {
	case es.ch <- eventMsg{err: err}:
	case <-es.quit:
	}
}

func (es *EventStream) finish() {
	es.fail(errEndOfStream)
}

// Next returns the next event. The terminal error is io.EOF after a
// normal completion, or the upstream failure.
func (es *EventStream) Next() (*Event, error) {
	if es.err != nil {
		return nil, es.err
	}
	select {
	case <-es.quit:
		es.err = errAbandoned
		return nil, es.err
	default:
	}
	select {
	case <-es.quit:
		es.err = errAbandoned
		return nil, es.err
	case m := <-es.ch:
		if m.ev != nil {
			return m.ev, nil
		}
		es.err = m.err
		return nil, es.err
	}
}

// Close abandons the stream.
func (es *EventStream) Close() error {
	es.once.Do(func() { close(es.quit) })
	return nil
}
