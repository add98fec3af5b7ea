package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HealthDependenciesHandler handles GET /health/ready — readiness probe.
// Checks the database and, when configured, Redis before declaring the
// service ready. Either dependency may be nil (in-memory store, cache
// disabled) and is then skipped.
type HealthDependenciesHandler struct {
	db    *sql.DB
	redis *redis.Client
}

func NewHealthDependenciesHandler(db *sql.DB, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		db:    db,
		redis: rdb,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			deps["database"] = dependencyStatus{Status: "down", Error: err.Error()}
			healthy = false
		} else {
			deps["database"] = dependencyStatus{Status: "up"}
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyStatus{Status: "down", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "up"}
		}
	}

	status := "ready"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}
