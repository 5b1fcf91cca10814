// Package settings models the CDN integration settings record and the
// option stores it is persisted in.
package settings

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// DefaultKey is the option name the record is stored under.
const DefaultKey = "quant_settings"

// Record keys as stored in the option value.
const (
	KeyEnabled            = "enabled"
	KeyDisableTLSVerify   = "disable_tls_verify"
	KeyHTTPRequestTimeout = "http_request_timeout"
	KeyWebserverURL       = "webserver_url"
	KeyWebserverHost      = "webserver_host"
	KeyAPIEndpoint        = "api_endpoint"
	KeyAPIAccount         = "api_account"
	KeyAPIProject         = "api_project"
	KeyAPIToken           = "api_token"
)

// Keys lists the modelled record keys.
var Keys = []string{
	KeyEnabled,
	KeyDisableTLSVerify,
	KeyHTTPRequestTimeout,
	KeyWebserverURL,
	KeyWebserverHost,
	KeyAPIEndpoint,
	KeyAPIAccount,
	KeyAPIProject,
	KeyAPIToken,
}

const (
	DefaultHTTPRequestTimeout = 15
	DefaultAPIEndpoint        = "https://api.quantcdn.io"
)

// Record is the persisted settings document. Booleans are kept as 0/1 the
// way the CDN plugin stores them. Keys not modelled here survive in Extra.
type Record struct {
	Enabled            int    `mapstructure:"enabled" json:"enabled"`
	DisableTLSVerify   int    `mapstructure:"disable_tls_verify" json:"disable_tls_verify"`
	HTTPRequestTimeout int    `mapstructure:"http_request_timeout" json:"http_request_timeout"`
	WebserverURL       string `mapstructure:"webserver_url" json:"webserver_url"`
	WebserverHost      string `mapstructure:"webserver_host" json:"webserver_host"`
	APIEndpoint        string `mapstructure:"api_endpoint" json:"api_endpoint"`
	APIAccount         string `mapstructure:"api_account" json:"api_account"`
	APIProject         string `mapstructure:"api_project" json:"api_project"`
	APIToken           string `mapstructure:"api_token" json:"api_token"`

	Extra map[string]interface{} `mapstructure:",remain" json:"-"`

	stored  map[string]interface{}
	invalid []string
}

// Default returns a record holding the documented defaults.
func Default() *Record {
	return &Record{
		HTTPRequestTimeout: DefaultHTTPRequestTimeout,
		APIEndpoint:        DefaultAPIEndpoint,
	}
}

// FromMap decodes a stored option value. Absent keys keep their defaults. A
// modelled key whose stored value cannot be decoded also keeps its default
// and is reported by Invalid; it never fails the whole record.
func FromMap(values map[string]interface{}) (*Record, error) {
	rec := Default()
	rec.stored = values
	if len(values) == 0 {
		return rec, nil
	}

	if err := decodeInto(rec, values); err == nil {
		return rec, nil
	}

	rec = Default()
	rec.stored = values
	for k, v := range values {
		if !isModelled(k) {
			if rec.Extra == nil {
				rec.Extra = make(map[string]interface{})
			}
			rec.Extra[k] = v
			continue
		}
		if err := decodeInto(rec, map[string]interface{}{k: v}); err != nil {
			rec.invalid = append(rec.invalid, k)
		}
	}
	sort.Strings(rec.invalid)
	return rec, nil
}

func decodeInto(rec *Record, values map[string]interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           rec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeRecord, err)
	}
	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("%w: %v", ErrDecodeRecord, err)
	}
	return nil
}

func isModelled(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Invalid lists the modelled keys whose stored values could not be decoded.
func (r *Record) Invalid() []string {
	return r.invalid
}

// IsInvalid reports whether key held an undecodable stored value.
func (r *Record) IsInvalid(key string) bool {
	for _, k := range r.invalid {
		if k == key {
			return true
		}
	}
	return false
}

// Value returns the typed value of a modelled key.
func (r *Record) Value(key string) (interface{}, bool) {
	switch key {
	case KeyEnabled:
		return r.Enabled, true
	case KeyDisableTLSVerify:
		return r.DisableTLSVerify, true
	case KeyHTTPRequestTimeout:
		return r.HTTPRequestTimeout, true
	case KeyWebserverURL:
		return r.WebserverURL, true
	case KeyWebserverHost:
		return r.WebserverHost, true
	case KeyAPIEndpoint:
		return r.APIEndpoint, true
	case KeyAPIAccount:
		return r.APIAccount, true
	case KeyAPIProject:
		return r.APIProject, true
	case KeyAPIToken:
		return r.APIToken, true
	}
	return nil, false
}

// Patch returns the value the record was decoded from with only keys
// replaced by their current typed values. Every other stored key, present or
// absent, is left as it was.
func (r *Record) Patch(keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(r.stored)+len(keys))
	for k, v := range r.stored {
		out[k] = v
	}
	for _, k := range keys {
		if v, ok := r.Value(k); ok {
			out[k] = v
		}
	}
	return out
}

// ToMap encodes the record for storage, carrying unknown keys through.
func (r *Record) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(Keys)+len(r.Extra))
	for k, v := range r.Extra {
		out[k] = v
	}
	out[KeyEnabled] = r.Enabled
	out[KeyDisableTLSVerify] = r.DisableTLSVerify
	out[KeyHTTPRequestTimeout] = r.HTTPRequestTimeout
	out[KeyWebserverURL] = r.WebserverURL
	out[KeyWebserverHost] = r.WebserverHost
	out[KeyAPIEndpoint] = r.APIEndpoint
	out[KeyAPIAccount] = r.APIAccount
	out[KeyAPIProject] = r.APIProject
	out[KeyAPIToken] = r.APIToken
	return out
}

// Masked returns a copy safe to expose over the API.
func (r *Record) Masked() *Record {
	c := *r
	c.Extra = nil
	c.stored = nil
	c.invalid = nil
	if c.APIToken != "" {
		c.APIToken = maskSecret(c.APIToken)
	}
	return &c
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
