package ai

import "context"

// Client runs one prompt against a text-generation backend. Implementations
// report every failure through the returned Outcome and must be safe for
// concurrent use.
type Client interface {
	Generate(ctx context.Context, prompt string) Outcome
}
