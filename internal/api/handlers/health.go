package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/tzsmit/nova-titan-parlay/internal/providers"
	"github.com/tzsmit/nova-titan-parlay/pkg/database"
)

type HealthHandler struct {
	db       *database.DB
	redis    *redis.Client
	provider *providers.OddsAPIClient
}

func NewHealthHandler(db *database.DB, redisClient *redis.Client, provider *providers.OddsAPIClient) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redisClient,
		provider: provider,
	}
}

// GetHealth returns basic liveness - always 200 while the server is running.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().UTC(),
		"service": "parlay-engine",
	})
}

// GetReady reports readiness: the database and cache must both respond.
func (h *HealthHandler) GetReady(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		checks["redis"] = "down"
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if h.provider != nil {
		checks["odds_provider_breaker"] = h.provider.BreakerState()
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
