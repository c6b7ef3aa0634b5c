// Package oracle defines the boundary to the external generative text
// service used for profiling, question generation, answer classification
// and counter-question replies.
package oracle

import "context"

// Roles for conversation messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry of the conversation context.
type Message struct {
	Role    string
	Content string
}

// Completer produces free-form text for a system instruction and an ordered
// message history. Implementations are treated as fallible black boxes: the
// returned text is expected, not guaranteed, to be machine-parseable.
type Completer interface {
	Complete(ctx context.Context, system string, messages []Message, temperature float32) (string, error)
}
