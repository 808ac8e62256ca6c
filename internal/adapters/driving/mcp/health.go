package mcp

import (
	"encoding/json"
	"net/http"
	"time"
)

// healthResponse is the liveness payload. It never touches the store:
// liveness must be observable with zero configuration.
type healthResponse struct {
	Status            string  `json:"status"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
	ConfigInitialized bool    `json:"configInitialized"`
	Sessions          int     `json:"sessions"`
	Version           string  `json:"version"`
}

// handleHealth reports process uptime and configuration state.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status:            "ok",
		UptimeSeconds:     time.Since(s.startTime).Seconds(),
		ConfigInitialized: s.ports.Config.Initialized(),
		Sessions:          s.registry.Len(),
		Version:           Version,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}
