package anthropic

import (
	"context"

	"github.com/strandchat/strand/internal/provider"
)

// Complete sends a synchronous completion request to the Anthropic
// Messages API and wraps the reply as a single candidate.
func (a *Anthropic) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	params := convertRequest(req, &a.config, a.logger)

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return provider.CompletionResponse{}, mapError(err)
	}

	return convertResponse(msg), nil
}
