// Package llm defines the narrow LLM interface the Validator depends on,
// with Claude and Gemini implementations selected by a provider factory.
package llm

import "context"

// Client generates raw text completions from a single prompt. The
// Validator is the only caller; it owns prompt construction and response
// parsing, so this interface stays deliberately narrow (no streaming, no
// multi-turn chat history).
type Client interface {
	// Generate sends prompt to model and returns the raw response text.
	Generate(ctx context.Context, prompt, model string) (string, error)
}
