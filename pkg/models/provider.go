package models

import "context"

// ProviderAdapter translates the uniform turn model to and from one
// backend's wire format. Tool adapters implement the same interface; their
// "generation" is formatting a lookup result.
type ProviderAdapter interface {
	// Name identifies the backend family for logging and error tagging.
	Name() string
	// Generate invokes the backend once with the request turns and the
	// augmented system context and returns the generated text.
	Generate(ctx context.Context, req *ChatRequest, systemContext string) (string, error)
	// Fallback is the fixed diagnostic string returned to the user when
	// the adapter is unconfigured or its backend call fails.
	Fallback() string
}
