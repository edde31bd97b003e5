package providers

import (
	"context"
)

// Message roles shared by every provider. Providers translate them to
// their own wire names (Gemini calls the assistant "model").
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider defines the interface for the upstream generative model
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the default model used when a request does not name one
	Model() string

	// Complete performs a single stateless completion
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// ValidateConfig validates the provider configuration
	ValidateConfig() error
}

// CompletionRequest represents one round-trip to the model. History is
// carried explicitly in Messages; providers keep no state between calls.
type CompletionRequest struct {
	SystemInstruction string    `json:"system_instruction,omitempty"`
	Messages          []Message `json:"messages"`
	Model             string    `json:"model,omitempty"`
	Temperature       *float32  `json:"temperature,omitempty"`
	MaxTokens         *int      `json:"max_tokens,omitempty"`
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a non-streaming response
type CompletionResponse struct {
	ID           string `json:"id,omitempty"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage represents token usage information
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
