package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quantwp/pkg/hooks"
	"quantwp/pkg/hostctx"
	"quantwp/pkg/middleware"
)

// SiteResponse is the resolved site view for the current request
type SiteResponse struct {
	Scheme         string `json:"scheme"`
	Host           string `json:"host"`
	Resolved       bool   `json:"resolved"`
	HomeURL        string `json:"home_url"`
	SiteURL        string `json:"site_url"`
	HomeStatic     bool   `json:"home_static"`
	SiteStatic     bool   `json:"site_static"`
	UploadsBaseURL string `json:"uploads_base_url"`
}

// GetSite returns the scheme, host and URLs resolved for this request
func (h *HandlerService) GetSite(c *gin.Context) {
	ctx := c.Request.Context()
	hc, resolved := hostctx.FromContext(ctx)
	urls := middleware.SiteURLsFrom(c)

	home, _ := urls.Home()
	site, _ := urls.SiteURL()
	homeStatic, siteStatic := urls.Static()

	resp := SiteResponse{
		Scheme:     hc.Scheme,
		Host:       hc.Host,
		Resolved:   resolved,
		HomeURL:    home,
		SiteURL:    site,
		HomeStatic: homeStatic,
		SiteStatic: siteStatic,
	}

	uploads := ""
	if site != "" {
		uploads = strings.TrimRight(site, "/") + hostctx.UploadsPath
	}
	resp.UploadsBaseURL = h.registry.ApplyFilters(ctx, hooks.FilterUploadsBaseURL, uploads)

	c.JSON(http.StatusOK, resp)
}
