package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/handler/http/response"
)

// HealthChecker is satisfied by database.DB and cache.Redis.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheck is one dependency probed by /healthz. Optional dependencies
// report "down" without failing the check.
type HealthCheck struct {
	Name     string
	Checker  HealthChecker
	Optional bool
}

func Healthz(checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for _, c := range checks {
			if c.Checker != nil && c.Checker.Healthy(ctx) {
				status[c.Name] = "up"
				continue
			}
			status[c.Name] = "down"
			if !c.Optional {
				healthy = false
			}
		}

		if !healthy {
			response.ServiceUnavailable(w, "Service unavailable", status)
			return
		}
		response.Success(w, status)
	}
}
