// Package providertest provides a scripted Provider for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/strandchat/strand/internal/provider"
)

// Fake is a scripted provider.Provider. Configure Response, Err, or Delay
// before use; Requests records every CompletionRequest received.
type Fake struct {
	mu       sync.Mutex
	Response provider.CompletionResponse
	Err      error
	Delay    func(ctx context.Context) error
	Requests []provider.CompletionRequest
	Model    string
}

// Complete implements provider.Provider.
func (f *Fake) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	delay := f.Delay
	resp, err := f.Response, f.Err
	f.mu.Unlock()

	if delay != nil {
		if derr := delay(ctx); derr != nil {
			return provider.CompletionResponse{}, derr
		}
	}
	return resp, err
}

// ModelName implements provider.Provider.
func (f *Fake) ModelName() string {
	if f.Model == "" {
		return "fake-model"
	}
	return f.Model
}

// LastRequest returns the most recent recorded request, or false when the
// provider was never called.
func (f *Fake) LastRequest() (provider.CompletionRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Requests) == 0 {
		return provider.CompletionRequest{}, false
	}
	return f.Requests[len(f.Requests)-1], true
}

// Calls returns the number of Complete invocations.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
