package domain

// Chat message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat turn sent to the language model.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest is a provider-neutral chat completion request.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
	TopP        float32
	// JSONMode asks the model for a single JSON object.
	JSONMode bool
}

// CompletionResult carries the model output and token usage.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
