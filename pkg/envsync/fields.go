package envsync

import (
	"strconv"
	"strings"

	"quantwp/pkg/settings"
)

// Recognised environment variables.
const (
	EnvEnabled            = "QUANT_ENABLED"
	EnvDisableTLSVerify   = "QUANT_DISABLE_TLS_VERIFY"
	EnvHTTPRequestTimeout = "QUANT_HTTP_REQUEST_TIMEOUT"
	EnvWebserverURL       = "QUANT_WEBSERVER_URL"
	EnvWebserverHost      = "QUANT_WEBSERVER_HOST"
	EnvAPIEndpoint        = "QUANT_API_ENDPOINT"
	EnvCustomer           = "QUANT_CUSTOMER"
	EnvProject            = "QUANT_PROJECT"
	EnvToken              = "QUANT_TOKEN"
)

type fieldKind int

const (
	kindBool fieldKind = iota
	kindInt
	kindString
)

type field struct {
	env    string
	key    string
	label  string
	kind   fieldKind
	secret bool
	intRef func(*settings.Record) *int
	strRef func(*settings.Record) *string
}

var fields = []field{
	{env: EnvEnabled, key: settings.KeyEnabled, label: "Enabled", kind: kindBool,
		intRef: func(r *settings.Record) *int { return &r.Enabled }},
	{env: EnvDisableTLSVerify, key: settings.KeyDisableTLSVerify, label: "Disable TLS Verify", kind: kindBool,
		intRef: func(r *settings.Record) *int { return &r.DisableTLSVerify }},
	{env: EnvHTTPRequestTimeout, key: settings.KeyHTTPRequestTimeout, label: "HTTP Request Timeout", kind: kindInt,
		intRef: func(r *settings.Record) *int { return &r.HTTPRequestTimeout }},
	{env: EnvWebserverURL, key: settings.KeyWebserverURL, label: "Webserver URL", kind: kindString,
		strRef: func(r *settings.Record) *string { return &r.WebserverURL }},
	{env: EnvWebserverHost, key: settings.KeyWebserverHost, label: "Webserver Host", kind: kindString,
		strRef: func(r *settings.Record) *string { return &r.WebserverHost }},
	{env: EnvAPIEndpoint, key: settings.KeyAPIEndpoint, label: "API Endpoint", kind: kindString,
		strRef: func(r *settings.Record) *string { return &r.APIEndpoint }},
	{env: EnvCustomer, key: settings.KeyAPIAccount, label: "API Customer", kind: kindString,
		strRef: func(r *settings.Record) *string { return &r.APIAccount }},
	{env: EnvProject, key: settings.KeyAPIProject, label: "API Project", kind: kindString,
		strRef: func(r *settings.Record) *string { return &r.APIProject }},
	{env: EnvToken, key: settings.KeyAPIToken, label: "API Token", kind: kindString, secret: true,
		strRef: func(r *settings.Record) *string { return &r.APIToken }},
}

// Variables lists the recognised variable names in evaluation order.
func Variables() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.env
	}
	return names
}

// ParseBool maps the permissive boolean literals to 0/1. An empty string is
// false. Anything else is reported as not ok.
func ParseBool(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return 1, true
	case "0", "false", "no", "off", "":
		return 0, true
	}
	return 0, false
}

// ParseTimeout reads the leading integer of s, so "30s" and "15.5" give 30
// and 15. Values without leading digits or not above zero are rejected.
func ParseTimeout(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
