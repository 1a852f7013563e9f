package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/strandchat/strand/internal/provider"
)

// healthProbeTimeout bounds the optional provider probe so /health stays
// fast even when the upstream hangs.
const healthProbeTimeout = 5 * time.Second

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status string `json:"status"` // "ok" or "degraded"
	Model  string `json:"model"`
	Error  string `json:"error,omitempty"`
}

// handleHealth returns an http.HandlerFunc for GET /health. When the
// provider supports active probing, a failed probe turns the status
// degraded with a 503.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status: "ok",
			Model:  g.provider.ModelName(),
		}

		if hc, ok := g.provider.(provider.HealthChecker); ok {
			ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
			defer cancel()
			if err := hc.HealthCheck(ctx); err != nil {
				resp.Status = "degraded"
				resp.Error = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status == "degraded" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
