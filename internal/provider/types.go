package provider

// MessageRole identifies the sender of a turn in a conversation.
type MessageRole string

// MessageRole constants for conversation turns.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Turn represents a single message in the forwarded conversation.
type Turn struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// CompletionRequest is the input to a Provider.Complete call.
type CompletionRequest struct {
	Turns     []Turn `json:"messages"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// Candidate is one reply alternative returned by the provider.
type Candidate struct {
	Content string `json:"content"`
}

// CompletionResponse is the output of a Provider.Complete call. Providers
// may return several candidates; callers use the first.
type CompletionResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the first candidate's content, or "" when the response
// carries no usable reply.
func (r CompletionResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].Content
}
