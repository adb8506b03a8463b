package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
)

// HealthCheck is a single dependency probe.
type HealthCheck func(ctx context.Context) error

// HealthHandler runs the given named probes and reports 200 when all pass,
// 503 otherwise, with a per-dependency breakdown in the body.
func HealthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		result := make(map[string]string, len(checks)+1)
		result["status"] = "healthy"

		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				result["status"] = "unhealthy"
				result[name] = err.Error()
			} else {
				result[name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	}
}
