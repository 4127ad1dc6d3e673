package llm

import "context"

// Message roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat turn sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User builds a user message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Client is the text-generation capability consumed by the pipeline.
// Implementations are stateless request issuers and safe for concurrent use.
type Client interface {
	Invoke(ctx context.Context, messages []Message, temperature float64) (string, error)
}
