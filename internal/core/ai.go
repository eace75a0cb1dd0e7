package core

import "context"

// ChatMessage is one prior turn handed to the model, most-recent-last.
type ChatMessage struct {
	Role    string // "user" or "assistant"
	Content string
}

// LLMProvider produces one JSON-mode completion per call. Implementations
// must not retry; callers treat a failed call as final for that message.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, history []ChatMessage, userPrompt string, temperature float32) (string, error)
}
