package provider

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrNoContent indicates the provider answered without any usable
	// reply text (no candidates, or an empty first candidate).
	ErrNoContent = errors.New("no content in response")

	// ErrRateLimit indicates the provider returned a rate limit response.
	ErrRateLimit = errors.New("provider rate limited")

	// ErrContextLength indicates the request exceeded the model's context window.
	ErrContextLength = errors.New("context length exceeded")

	// ErrProviderDown indicates the provider is temporarily unavailable.
	ErrProviderDown = errors.New("provider unavailable")
)
