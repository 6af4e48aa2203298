package composer

// EventType classifies a streaming event.
type EventType string

const (
	// EventText is a raw text increment with no new renderable score.
	EventText EventType = "text"
	// EventPartial carries a renderable snapshot of the in-progress
	// score. Measure counts across partial events strictly increase.
	EventPartial EventType = "partial"
	// EventComplete is the single terminal event: the validated final
	// document, or XML=="" when the stream produced no usable score.
	EventComplete EventType = "complete"
)

// Event is one item of a compose stream.
type Event struct {
	Type EventType `json:"type"`

	// Text is the increment for EventText, or the model's full reply
	// for EventComplete.
	Text string `json:"text,omitempty"`

	// XML is the snapshot for EventPartial or the final document for
	// EventComplete.
	XML string `json:"musicxml,omitempty"`

	// Measures is the snapshot's measure-close count for EventPartial.
	Measures int `json:"measures,omitempty"`
}
