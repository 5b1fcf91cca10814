package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quantwp/pkg/hooks"
	"quantwp/pkg/response"
	"quantwp/pkg/settings"
)

// GetSettings runs the admin_init actions, then returns the stored record
// with the API token masked.
func (h *HandlerService) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.registry.DoAction(ctx, hooks.ActionAdminInit); err != nil {
		_ = c.Error(response.NewInternalServerError("Failed to run admin actions", err))
		return
	}
	if h.store == nil {
		_ = c.Error(response.NewServiceUnavailableError("Settings store not available", nil))
		return
	}

	rec, err := settings.Load(ctx, h.store, h.config.Settings.Key)
	if err != nil {
		_ = c.Error(response.NewInternalServerError("Failed to load settings", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings_key": h.config.Settings.Key,
		"settings":     rec.Masked(),
		"timestamp":    getCurrentTimestamp(),
	})
}

// TriggerSync runs one synchronization pass now
func (h *HandlerService) TriggerSync(c *gin.Context) {
	if h.syncer == nil {
		_ = c.Error(response.NewServiceUnavailableError("Settings sync not available", nil))
		return
	}

	result, err := h.syncer.Sync(c.Request.Context())
	if err != nil {
		_ = c.Error(response.NewInternalServerError("Settings sync failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":    result,
		"timestamp": getCurrentTimestamp(),
	})
}
