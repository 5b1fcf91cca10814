package handlers

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"quantwp/pkg/hooks"
)

// GetMailFrom shows the sender the mail filters produce. Without query
// parameters it starts from the framework defaults for the request host.
func (h *HandlerService) GetMailFrom(c *gin.Context) {
	ctx := c.Request.Context()

	address := c.Query("address")
	if address == "" {
		host := c.Request.Host
		if hn, _, err := net.SplitHostPort(host); err == nil {
			host = hn
		}
		address = "wordpress@" + host
	}
	name := c.DefaultQuery("name", "WordPress")

	c.JSON(http.StatusOK, gin.H{
		"address": h.registry.ApplyFilters(ctx, hooks.FilterMailFrom, address),
		"name":    h.registry.ApplyFilters(ctx, hooks.FilterMailFromName, name),
	})
}
