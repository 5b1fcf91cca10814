package hostctx

import (
	"context"
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"quantwp/pkg/hooks"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		sig        Signals
		wantScheme string
		wantHost   string
		wantOk     bool
	}{
		{
			name:       "edge host wins",
			sig:        Signals{OrigHost: "edge.example.com", Host: "internal.example.com"},
			wantScheme: "http",
			wantHost:   "edge.example.com",
			wantOk:     true,
		},
		{
			name:       "falls back to request host",
			sig:        Signals{Host: "internal.example.com"},
			wantScheme: "http",
			wantHost:   "internal.example.com",
			wantOk:     true,
		},
		{
			name:       "forwarded proto list containing https",
			sig:        Signals{ForwardedProto: "https,http", Host: "a.example.com"},
			wantScheme: "https",
			wantHost:   "a.example.com",
			wantOk:     true,
		},
		{
			name:       "https flag on",
			sig:        Signals{HTTPS: "on", Host: "a.example.com"},
			wantScheme: "https",
			wantHost:   "a.example.com",
			wantOk:     true,
		},
		{
			name:       "https flag off",
			sig:        Signals{HTTPS: "off", ForwardedProto: "http", Host: "a.example.com"},
			wantScheme: "http",
			wantHost:   "a.example.com",
			wantOk:     true,
		},
		{
			name:       "no host",
			sig:        Signals{ForwardedProto: "https"},
			wantScheme: "https",
			wantOk:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc, ok := Resolve(tt.sig)
			if ok != tt.wantOk || hc.Scheme != tt.wantScheme || hc.Host != tt.wantHost {
				t.Errorf("Resolve() = %+v, %v, want %s://%s, %v", hc, ok, tt.wantScheme, tt.wantHost, tt.wantOk)
			}
		})
	}
}

func TestContextURLs(t *testing.T) {
	hc := Context{Scheme: "https", Host: "edge.example.com"}
	if hc.HomeURL() != "https://edge.example.com" || hc.SiteURL() != hc.HomeURL() {
		t.Errorf("home/site = %q/%q", hc.HomeURL(), hc.SiteURL())
	}
	if hc.UploadsBaseURL() != "https://edge.example.com/wp-content/uploads" {
		t.Errorf("uploads = %q", hc.UploadsBaseURL())
	}
}

func TestResolverFromRequest(t *testing.T) {
	r := NewResolver("")
	req := httptest.NewRequest("GET", "http://internal.example.com/", nil)
	req.Header.Set("Quant-Orig-Host", "edge.example.com")
	req.Header.Set("X-Forwarded-Proto", "https")

	hc, ok := r.Resolve(req)
	if !ok || hc.BaseURL() != "https://edge.example.com" {
		t.Errorf("Resolve(req) = %+v, %v", hc, ok)
	}

	custom := NewResolver("X-Edge-Host")
	req = httptest.NewRequest("GET", "http://internal.example.com/", nil)
	req.Header.Set("X-Edge-Host", "custom.example.com")
	req.TLS = &tls.ConnectionState{}
	hc, _ = custom.Resolve(req)
	if hc.BaseURL() != "https://custom.example.com" {
		t.Errorf("custom header resolution = %q", hc.BaseURL())
	}
}

func TestSiteURLsDefineOnce(t *testing.T) {
	hc := Context{Scheme: "https", Host: "edge.example.com"}

	dynamic := NewSiteURLs("", "")
	dynamic.Apply(hc)
	if home, ok := dynamic.Home(); !ok || home != "https://edge.example.com" {
		t.Errorf("Home() = %q, %v", home, ok)
	}
	if dynamic.DefineSiteURL("https://other.example.com") {
		t.Error("second definition must be rejected")
	}
	if site, _ := dynamic.SiteURL(); site != "https://edge.example.com" {
		t.Errorf("SiteURL() = %q, first definition should stick", site)
	}

	static := NewSiteURLs("https://static.example.com", "")
	static.Apply(hc)
	if home, _ := static.Home(); home != "https://static.example.com" {
		t.Errorf("static home overridden: %q", home)
	}
	if site, _ := static.SiteURL(); site != "https://edge.example.com" {
		t.Errorf("site should be dynamic: %q", site)
	}
	if h, s := static.Static(); !h || s {
		t.Errorf("Static() = %v, %v", h, s)
	}
}

func TestUploadsFilter(t *testing.T) {
	reg := hooks.NewRegistry()
	RegisterUploadsFilter(reg)

	const original = "http://internal.example.com/wp-content/uploads"
	if got := reg.ApplyFilters(context.Background(), hooks.FilterUploadsBaseURL, original); got != original {
		t.Errorf("without host context the value should pass through, got %q", got)
	}

	ctx := NewContext(context.Background(), Context{Scheme: "https", Host: "edge.example.com"})
	if got := reg.ApplyFilters(ctx, hooks.FilterUploadsBaseURL, original); got != "https://edge.example.com/wp-content/uploads" {
		t.Errorf("uploads filter = %q", got)
	}
}
