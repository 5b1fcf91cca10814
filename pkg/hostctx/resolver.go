// Package hostctx works out the externally visible scheme and host of a
// request sitting behind an edge and a reverse proxy.
package hostctx

import (
	"context"
	"net/http"
	"strings"
)

const (
	DefaultOrigHostHeader = "Quant-Orig-Host"
	ForwardedProtoHeader  = "X-Forwarded-Proto"

	UploadsPath = "/wp-content/uploads"
)

// Signals are the raw per-request inputs.
type Signals struct {
	ForwardedProto string
	OrigHost       string
	Host           string
	// HTTPS follows the server-variable convention: any non-empty value
	// other than "off" means the transport is TLS.
	HTTPS string
}

// Context is the resolved, request-scoped view.
type Context struct {
	Scheme string `json:"scheme"`
	Host   string `json:"host"`
}

// Resolve picks the scheme and host. ok is false when no host is known.
func Resolve(sig Signals) (Context, bool) {
	scheme := "http"
	if strings.Contains(sig.ForwardedProto, "https") || (sig.HTTPS != "" && sig.HTTPS != "off") {
		scheme = "https"
	}

	host := sig.OrigHost
	if host == "" {
		host = sig.Host
	}
	if host == "" {
		return Context{Scheme: scheme}, false
	}
	return Context{Scheme: scheme, Host: host}, true
}

func (c Context) BaseURL() string {
	return c.Scheme + "://" + c.Host
}

func (c Context) HomeURL() string {
	return c.BaseURL()
}

func (c Context) SiteURL() string {
	return c.BaseURL()
}

func (c Context) UploadsBaseURL() string {
	return c.BaseURL() + UploadsPath
}

// Resolver reads Signals off HTTP requests.
type Resolver struct {
	OrigHostHeader string
}

func NewResolver(origHostHeader string) *Resolver {
	if origHostHeader == "" {
		origHostHeader = DefaultOrigHostHeader
	}
	return &Resolver{OrigHostHeader: origHostHeader}
}

func (r *Resolver) Signals(req *http.Request) Signals {
	sig := Signals{
		ForwardedProto: req.Header.Get(ForwardedProtoHeader),
		OrigHost:       req.Header.Get(r.OrigHostHeader),
		Host:           req.Host,
	}
	if req.TLS != nil {
		sig.HTTPS = "on"
	}
	return sig
}

func (r *Resolver) Resolve(req *http.Request) (Context, bool) {
	return Resolve(r.Signals(req))
}

type ctxKey struct{}

// NewContext attaches a resolved host context.
func NewContext(ctx context.Context, hc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, hc)
}

// FromContext returns the host context stored by NewContext.
func FromContext(ctx context.Context) (Context, bool) {
	hc, ok := ctx.Value(ctxKey{}).(Context)
	return hc, ok
}
