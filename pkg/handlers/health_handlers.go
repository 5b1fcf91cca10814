package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quantwp/pkg/logger"
)

const storeCheckTimeout = 2 * time.Second

// HealthCheck reports store, scheduler and configuration health.
// Only the store is required; a missing scheduler is reported, not fatal.
func (h *HandlerService) HealthCheck(c *gin.Context) {
	checks := map[string]interface{}{
		"store":     h.checkStoreHealth(c.Request.Context()),
		"scheduler": h.checkSchedulerHealth(),
		"config":    h.checkConfigHealth(),
	}

	status := "healthy"
	code := http.StatusOK
	for name, check := range checks {
		if name == "scheduler" {
			continue
		}
		if m, ok := check.(map[string]interface{}); ok && m["status"] != "healthy" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": getCurrentTimestamp(),
		"checks":    checks,
	})
}

// GetStatus returns the overall service status
func (h *HandlerService) GetStatus(c *gin.Context) {
	status := gin.H{
		"service":   "quantwp",
		"status":    "running",
		"timestamp": getCurrentTimestamp(),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"log_level": logger.GetLevel(),
		"debug":     logger.DebugEnabled(),
	}

	if h.syncer != nil {
		if pass, at := h.syncer.LastPass(); pass != nil {
			status["last_sync"] = gin.H{
				"at":      at.UTC().Format(time.RFC3339),
				"pass_id": pass.PassID,
				"changes": len(pass.Changes),
				"written": pass.Written,
			}
		}
	}
	if h.scheduler != nil {
		status["scheduler"] = h.scheduler.GetStatus()
	}

	c.JSON(http.StatusOK, status)
}

func (h *HandlerService) checkStoreHealth(ctx context.Context) map[string]interface{} {
	if h.store == nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  "settings store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, storeCheckTimeout)
	defer cancel()
	if _, err := h.store.Get(ctx, h.config.Settings.Key); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	}
	return map[string]interface{}{
		"status": "healthy",
		"driver": h.config.Store.Driver,
	}
}

func (h *HandlerService) checkSchedulerHealth() map[string]interface{} {
	if h.scheduler == nil {
		return map[string]interface{}{
			"status": "unavailable",
			"error":  "scheduler not initialized",
		}
	}
	return map[string]interface{}{
		"status":  "healthy",
		"details": h.scheduler.GetStatus(),
	}
}

func (h *HandlerService) checkConfigHealth() map[string]interface{} {
	if h.config == nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  "configuration not loaded",
		}
	}
	return map[string]interface{}{
		"status":       "healthy",
		"settings_key": h.config.Settings.Key,
	}
}
