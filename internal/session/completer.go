package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/strandchat/strand/internal/provider"
)

// Completer issues one outgoing turn exchange and returns the full reply
// text. The gateway is the normal implementation target; tests use fakes.
type Completer interface {
	Complete(ctx context.Context, turns []provider.Turn) (string, error)
}

// maxReplySize limits how much of a reply body is read (10 MB).
const maxReplySize = 10 * 1024 * 1024

// HTTPCompleter posts the turn list to a gateway chat endpoint and reads
// the reply as one plain-text body. It carries no deadline of its own:
// the server enforces the call deadline, and the client has no cancel
// transition.
type HTTPCompleter struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPCompleter creates a completer for the given endpoint URL.
func NewHTTPCompleter(endpoint string) *HTTPCompleter {
	return &HTTPCompleter{
		Endpoint: endpoint,
		Client:   &http.Client{},
	}
}

// chatPayload is the request body for POST /chat.
type chatPayload struct {
	Messages []provider.Turn `json:"messages"`
}

// Complete implements Completer.
func (h *HTTPCompleter) Complete(ctx context.Context, turns []provider.Turn) (string, error) {
	body, err := json.Marshal(chatPayload{Messages: turns})
	if err != nil {
		return "", fmt.Errorf("completer: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("completer: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return "", fmt.Errorf("completer: read reply: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completer: HTTP %d: %s", resp.StatusCode, reply)
	}

	return string(reply), nil
}
