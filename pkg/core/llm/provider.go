package llm

import (
	"context"
)

// Provider drafts text from a prompt. Implementations must honour ctx
// cancellation.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions rewrites the system prompt for the model's preferred style
	AdaptInstructions(rawInstructions string) string
}

// Message is one chat turn in an OpenAI-compatible request.
type Message struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}
