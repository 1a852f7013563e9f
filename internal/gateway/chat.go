package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/strandchat/strand/internal/provider"
)

// systemInstruction is prepended to every forwarded conversation. Clients
// send session history only; the gateway owns the assistant's standing
// instructions.
const systemInstruction = "You are a helpful AI assistant specializing in code. Respond accurately and concisely."

const invalidBodyMessage = "Invalid request body: 'messages' array is required."

// maxBodySize caps the inbound request body at 1 MiB. Conversations are
// trimmed client-side well below this.
const maxBodySize = 1 << 20

// preflightMaxAge is how long browsers may cache the CORS preflight
// result, in seconds.
const preflightMaxAge = "86400"

type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// handleChat returns the handler for POST /chat: one provider call per
// request, raced against the configured deadline.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		turns, ok := decodeTurns(r)
		if !ok {
			// The provider is never contacted for a malformed body.
			g.metrics.observe(http.StatusBadRequest, time.Since(start))
			writeText(w, http.StatusBadRequest, invalidBodyMessage)
			return
		}

		req := provider.CompletionRequest{
			Turns: append([]provider.Turn{
				{Role: provider.MessageRoleSystem, Content: systemInstruction},
			}, turns...),
		}

		ctx, cancel := context.WithTimeout(r.Context(), g.config.Deadline)
		defer cancel()

		resp, err := g.provider.Complete(ctx, req)
		latency := time.Since(start)

		switch {
		case errors.Is(err, context.DeadlineExceeded):
			g.logger.Warn("provider call timed out", "deadline", g.config.Deadline)
			g.metrics.observe(http.StatusGatewayTimeout, latency)
			writeText(w, http.StatusGatewayTimeout, "Error: The request to the AI provider timed out.")
		case err != nil:
			g.logger.Error("provider call failed", "error", err)
			g.metrics.observe(http.StatusInternalServerError, latency)
			writeText(w, http.StatusInternalServerError, "Error: "+err.Error())
		case resp.Text() == "":
			// A 200 with an empty body is never returned.
			g.logger.Error("provider returned no content")
			g.metrics.observe(http.StatusInternalServerError, latency)
			writeText(w, http.StatusInternalServerError, "Error: No content in response")
		default:
			g.metrics.observe(http.StatusOK, latency)
			writeText(w, http.StatusOK, resp.Text())
		}
	}
}

// handleChatPreflight returns the handler for OPTIONS /chat (CORS
// preflight).
func (g *Gateway) handleChatPreflight() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		h := w.Header()
		h.Set("Allow", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", preflightMaxAge)
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeTurns parses the request body. It reports false when the body is
// not JSON, when the messages field is absent or null, or when it is not
// an array. Ill-typed elements inside the array coerce to empty turns and
// are forwarded; judging their content is the provider's job.
func decodeTurns(r *http.Request) ([]provider.Turn, bool) {
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		return nil, false
	}
	if len(req.Messages) == 0 || string(req.Messages) == "null" {
		return nil, false
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(req.Messages, &raws); err != nil {
		return nil, false
	}
	turns := make([]provider.Turn, len(raws))
	for i, raw := range raws {
		_ = json.Unmarshal(raw, &turns[i])
	}
	return turns, true
}

// writeText writes a plain-text response with the permissive CORS origin
// header in a single write.
func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
