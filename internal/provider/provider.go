// Package provider defines the interface between strand and external
// completion services.
package provider

import "context"

// ServiceName is the registry key the active provider module registers
// itself under. Exactly one provider module is configured per process.
const ServiceName = "provider.llm"

// Provider is the interface for communicating with a completion service.
// Concrete implementations live in separate packages (e.g.
// provider.together) and also implement core.Module for lifecycle
// management. Replies are delivered whole; there is no streaming variant.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	// Cancellation and deadlines travel through ctx.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the underlying model.
	ModelName() string
}

// HealthChecker is an optional interface that providers may implement to
// support active health probing from the gateway's health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
