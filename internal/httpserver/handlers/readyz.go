package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quillcms/console/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready       bool `json:"ready"`
	Collections int  `json:"collections"`
	Redis       bool `json:"redis"`
}

// Readyz reports readiness: a loaded catalog and a reachable Redis.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		redisOK := d.RedisClient != nil && d.RedisClient.Ping(ctx).Err() == nil
		collections := d.Registry.Count()
		ready := redisOK && collections > 0

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:       ready,
			Collections: collections,
			Redis:       redisOK,
		})
	}
}
