package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quillcms/console/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	Collections *int   `json:"collections,omitempty"`
	LastLoad    string `json:"last_load,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the console's internal component health for operators.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		count := d.Registry.Count()
		catalogStatus := componentStatus{
			OK:          count > 0,
			Collections: &count,
		}
		if count > 0 {
			if m, ok := d.Registry.Get(d.Registry.Names()[0]); ok && !m.LoadedAt().IsZero() {
				catalogStatus.LastLoad = m.LoadedAt().Format("2006-01-02 15:04:05")
			}
		}

		components := map[string]componentStatus{
			"catalog": catalogStatus,
			"redis":   checkRedis(d),
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineMode(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "critical" // no collections = nothing to administer
	}
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded" // no history/session persistence
	}
	return "nominal"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "history-and-sessions-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "history-and-sessions-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "history-and-sessions-enabled",
	}
}
