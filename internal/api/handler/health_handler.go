package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness handles GET /health. It only proves the process is serving.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HealthDependenciesHandler serves the readiness probe, pinging whichever
// external stores the server was wired with. Either may be nil when the
// in-process fallback is active; a missing dependency is reported as "local".
type HealthDependenciesHandler struct {
	db  *mongo.Database
	rdb *redis.Client
}

func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{db: db, rdb: rdb}
}

// Readiness handles GET /health/ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx := c.Request().Context()

	status := map[string]string{"status": "ok", "mongo": "local", "redis": "local"}
	healthy := true

	if h.db != nil {
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err := h.db.Client().Ping(pingCtx, nil)
		pingCancel()
		if err != nil {
			status["mongo"] = "down"
			healthy = false
		} else {
			status["mongo"] = "up"
		}
	}

	if h.rdb != nil {
		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err := h.rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			status["redis"] = "down"
			healthy = false
		} else {
			status["redis"] = "up"
		}
	}

	if !healthy {
		status["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
