// Package llm provides generation backend clients.
package llm

import "context"

// Result is the outcome of one generation call.
type Result struct {
	// Text is the model's reply.
	Text string
	// TokenCount is the number of tokens in the reply as reported by
	// the backend, or 0 when the backend does not report usage.
	TokenCount int
}

// Client is the interface a generation backend must implement.
type Client interface {
	// Generate sends a single fully-assembled prompt and returns the
	// model's reply.
	Generate(ctx context.Context, prompt string) (*Result, error)

	// CountTokens returns the backend's token count for the text.
	CountTokens(ctx context.Context, text string) (int, error)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error
}
