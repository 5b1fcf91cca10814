package hostctx

import (
	"context"

	"quantwp/pkg/hooks"
)

// SiteURLs holds the home and site URLs for one request lifecycle. Each may
// be defined once; statically configured values are defined up front and
// win over dynamic resolution.
type SiteURLs struct {
	home       string
	site       string
	homeSet    bool
	siteSet    bool
	homeStatic bool
	siteStatic bool
}

func NewSiteURLs(staticHome, staticSite string) *SiteURLs {
	u := &SiteURLs{}
	if staticHome != "" {
		u.home, u.homeSet, u.homeStatic = staticHome, true, true
	}
	if staticSite != "" {
		u.site, u.siteSet, u.siteStatic = staticSite, true, true
	}
	return u
}

// DefineHome sets the home URL unless it is already defined.
func (u *SiteURLs) DefineHome(v string) bool {
	if u.homeSet {
		return false
	}
	u.home, u.homeSet = v, true
	return true
}

// DefineSiteURL sets the site URL unless it is already defined.
func (u *SiteURLs) DefineSiteURL(v string) bool {
	if u.siteSet {
		return false
	}
	u.site, u.siteSet = v, true
	return true
}

// Apply defines both URLs from a resolved context where still undefined.
func (u *SiteURLs) Apply(hc Context) {
	u.DefineHome(hc.HomeURL())
	u.DefineSiteURL(hc.SiteURL())
}

func (u *SiteURLs) Home() (string, bool) {
	return u.home, u.homeSet
}

func (u *SiteURLs) SiteURL() (string, bool) {
	return u.site, u.siteSet
}

// Static reports whether each URL came from static configuration.
func (u *SiteURLs) Static() (home, site bool) {
	return u.homeStatic, u.siteStatic
}

// RegisterUploadsFilter rewrites the uploads base URL to the current
// request's scheme and host.
func RegisterUploadsFilter(host hooks.Host) {
	host.RegisterFilter(hooks.FilterUploadsBaseURL, func(ctx context.Context, value string) string {
		hc, ok := FromContext(ctx)
		if !ok || hc.Host == "" {
			return value
		}
		return hc.UploadsBaseURL()
	}, hooks.DefaultPriority)
}
