package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/rowboard/internal/middleware"
	"github.com/deppfellow/rowboard/internal/server"
)

// HealthChecker is a single dependency check behind GET /status.
type HealthChecker struct {
	Name string
	// Critical checks turn the whole report unhealthy (503) when they fail.
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandler reports whether the service and its dependencies are
// reachable, for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks []HealthChecker
}

// NewHealthHandler registers the database check and, when Redis is
// configured, a non-critical Redis check. Checks disabled in
// observability.health_checks are skipped.
func NewHealthHandler(s *server.Server) *HealthHandler {
	var checks []HealthChecker

	if s.Config.Observability.HealthCheckEnabled("database") {
		checks = append(checks, HealthChecker{
			Name:     "database",
			Critical: true,
			Check:    s.DB.Pool.Ping,
		})
	}

	if s.Redis != nil && s.Config.Observability.HealthCheckEnabled("redis") {
		checks = append(checks, HealthChecker{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return s.Redis.Ping(ctx).Err()
			},
		})
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
	}
}

// CheckHealth returns 200 when every critical check passes and 503
// otherwise. Failure details are logged, never returned.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{}, len(h.checks))
	isHealthy := true

	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
		checkStart := time.Now()
		err := check.Check(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err != nil {
			checks[check.Name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
			}
			if check.Critical {
				isHealthy = false
			}

			logger.Error().
				Err(err).
				Str("check", check.Name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
					"check_type":       check.Name,
					"operation":        "health_check",
					"error_type":       check.Name + "_unhealthy",
					"response_time_ms": elapsed.Milliseconds(),
				})
			}
			continue
		}

		checks[check.Name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
	}

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
