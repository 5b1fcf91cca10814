package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quantwp/pkg/hostctx"
	"quantwp/pkg/logger"
)

const (
	HostContextKey = "HostContext"
	SiteURLsKey    = "SiteURLs"
)

// HostContext resolves the externally visible scheme and host for the
// request, rewrites the request host to it and defines the per-request
// home/site URLs. Statically configured URLs are never overridden.
func HostContext(resolver *hostctx.Resolver, staticHome, staticSite string) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls := hostctx.NewSiteURLs(staticHome, staticSite)
		c.Set(SiteURLsKey, urls)

		hc, ok := resolver.Resolve(c.Request)
		if ok {
			c.Request.Host = hc.Host
			c.Request = c.Request.WithContext(hostctx.NewContext(c.Request.Context(), hc))
			c.Set(HostContextKey, hc)
			urls.Apply(hc)
		}

		if logger.DebugEnabled() {
			home, _ := urls.Home()
			site, _ := urls.SiteURL()
			logger.Debug("Resolved request site",
				zap.String("request_id", c.GetString("RequestID")),
				zap.Bool("resolved", ok),
				zap.String("scheme", hc.Scheme),
				zap.String("host", hc.Host),
				zap.String("home", home),
				zap.String("siteurl", site))
		}

		c.Next()
	}
}

// SiteURLsFrom returns the SiteURLs installed by HostContext
func SiteURLsFrom(c *gin.Context) *hostctx.SiteURLs {
	if v, ok := c.Get(SiteURLsKey); ok {
		if urls, ok := v.(*hostctx.SiteURLs); ok {
			return urls
		}
	}
	return hostctx.NewSiteURLs("", "")
}
