package controllers

import (
	"context"
	"net/http"

	"github.com/hansbeauty/dashboard-backend/api/responses"
	"github.com/hansbeauty/dashboard-backend/pkg/config"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HansBeauty-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the dependencies the API serves from are
// reachable. A down upstream degrades readiness but the process stays live.
func HealthReady(cfg *config.Config, logg *logger.Logger, upstream pinger, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-HansBeauty-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if upstream != nil {
			if err := upstream.Ping(r.Context()); err != nil {
				checks["upstream"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.upstream.unreachable")
				}
			} else {
				checks["upstream"] = "ok"
			}
		}

		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "health.redis.unreachable")
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, code, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
