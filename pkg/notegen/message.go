package notegen

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

func (r Role) String() string {
	return string(r)
}

// Message is one text turn of a conversation.
type Message struct {
	Role Role
	Text string
}

// Chunk is one streamed increment of model output.
type Chunk struct {
	Text string
}
