package providers

import (
	"context"
	"sync"
)

// ConversationOption tunes the requests a conversation sends.
type ConversationOption func(*Conversation)

// WithTemperature sets the sampling temperature for every turn.
func WithTemperature(t float32) ConversationOption {
	return func(c *Conversation) { c.temperature = &t }
}

// WithMaxTokens caps the reply length for every turn.
func WithMaxTokens(n int) ConversationOption {
	return func(c *Conversation) {
		if n > 0 {
			c.maxTokens = &n
		}
	}
}

// Conversation is an ongoing exchange with a provider: a fixed system
// instruction plus every turn sent and received so far.
type Conversation struct {
	provider    Provider
	system      string
	temperature *float32
	maxTokens   *int

	mu      sync.Mutex
	history []Message
	usage   Usage
}

// NewConversation starts an empty conversation seeded with systemInstruction.
func NewConversation(provider Provider, systemInstruction string, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		provider: provider,
		system:   systemInstruction,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send appends text as a user turn, asks the model for the next turn and
// returns its text. Turns on one conversation are serialized; a failed
// round-trip leaves the history untouched. An empty reply is returned as is
// and only the user turn is recorded, since upstreams reject empty parts.
func (c *Conversation) Send(ctx context.Context, text string) (*CompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]Message, 0, len(c.history)+1)
	messages = append(messages, c.history...)
	messages = append(messages, Message{Role: RoleUser, Content: text})

	resp, err := c.provider.Complete(ctx, CompletionRequest{
		SystemInstruction: c.system,
		Messages:          messages,
		Model:             c.provider.Model(),
		Temperature:       c.temperature,
		MaxTokens:         c.maxTokens,
	})
	if err != nil {
		return nil, err
	}
	if resp.Content != "" {
		messages = append(messages, Message{Role: RoleAssistant, Content: resp.Content})
	}
	c.history = messages
	c.usage.PromptTokens += resp.Usage.PromptTokens
	c.usage.CompletionTokens += resp.Usage.CompletionTokens
	c.usage.TotalTokens += resp.Usage.TotalTokens

	return resp, nil
}

// History returns a copy of the turns exchanged so far.
func (c *Conversation) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

// Usage returns the cumulative token usage of the conversation.
func (c *Conversation) Usage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// ProviderName reports which provider the conversation talks to.
func (c *Conversation) ProviderName() string {
	return c.provider.Name()
}
