package together

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/strandchat/strand/internal/provider"
)

// maxResponseSize is the maximum response body size (10 MB).
// Protects against OOM from malformed or huge responses.
const maxResponseSize = 10 * 1024 * 1024

// chatRequest is the wire form of a Chat Completions request.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the wire form of a Chat Completions response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError is the wire form of an error response body.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// buildChatRequest creates a Together API request from a provider
// CompletionRequest, merging request-level overrides with config defaults.
func (p *Provider) buildChatRequest(req provider.CompletionRequest) chatRequest {
	cr := chatRequest{
		Model:    p.config.Model,
		Messages: make([]chatMessage, 0, len(req.Turns)),
	}
	for _, turn := range req.Turns {
		cr.Messages = append(cr.Messages, chatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	switch {
	case req.MaxTokens > 0:
		cr.MaxTokens = req.MaxTokens
	case p.config.MaxTokens > 0:
		cr.MaxTokens = p.config.MaxTokens
	}

	return cr
}

// newHTTPRequest creates an authenticated HTTP request for the Together API.
func (p *Provider) newHTTPRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("together: marshal request: %w", err)
	}

	url := p.config.BaseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("together: create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	return httpReq, nil
}

// Complete sends a non-streaming completion request and returns the full
// response. Candidates mirror the API's choices; an answer with none is
// surfaced as provider.ErrNoContent by callers via CompletionResponse.Text.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	httpReq, err := p.newHTTPRequest(ctx, "/chat/completions", p.buildChatRequest(req))
	if err != nil {
		return provider.CompletionResponse{}, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return provider.CompletionResponse{}, mapConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("together: read response: %w", err)
	}

	if httpErr := mapHTTPError(resp.StatusCode, body); httpErr != nil {
		return provider.CompletionResponse{}, httpErr
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("together: unmarshal response: %w", err)
	}

	out := provider.CompletionResponse{
		Candidates: make([]provider.Candidate, 0, len(cr.Choices)),
	}
	for _, choice := range cr.Choices {
		out.Candidates = append(out.Candidates, provider.Candidate{Content: choice.Message.Content})
	}
	return out, nil
}

// HealthCheck validates the provider is functional by sending a minimal
// 1-token completion. This tests the full path: authentication, model
// access, and quota.
func (p *Provider) HealthCheck(ctx context.Context) error {
	req := provider.CompletionRequest{
		Turns:     []provider.Turn{{Role: provider.MessageRoleUser, Content: "hi"}},
		MaxTokens: 1,
	}
	_, err := p.Complete(ctx, req)
	return err
}
