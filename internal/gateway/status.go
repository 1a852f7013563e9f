package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusResponse is the JSON response for the authenticated GET /status.
type StatusResponse struct {
	Bind          string `json:"bind"`
	Model         string `json:"model"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Deadline      string `json:"deadline"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (g *Gateway) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Bind:          g.config.Bind,
			Model:         g.provider.ModelName(),
			UptimeSeconds: int64(time.Since(g.startedAt) / time.Second),
			Deadline:      g.config.Deadline.String(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
