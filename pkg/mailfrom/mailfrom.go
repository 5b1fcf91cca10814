// Package mailfrom replaces the host framework's default outbound mail
// sender with environment-provided values.
package mailfrom

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"quantwp/pkg/envsource"
	"quantwp/pkg/hooks"
	"quantwp/pkg/logger"
)

const (
	EnvFrom     = "QUANT_SMTP_FROM"
	EnvFromName = "QUANT_SMTP_FROM_NAME"

	defaultAddressPrefix = "wordpress@"
	defaultName          = "WordPress"
)

type Config struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

func FromEnv(src envsource.Source) Config {
	return Config{
		Address: envsource.Get(src, EnvFrom),
		Name:    envsource.Get(src, EnvFromName),
	}
}

// FilterAddress only replaces the framework default wordpress@<domain>.
func (c Config) FilterAddress(addr string) string {
	if c.Address != "" && strings.HasPrefix(addr, defaultAddressPrefix) {
		return c.Address
	}
	return addr
}

// FilterName only replaces the framework default name.
func (c Config) FilterName(name string) string {
	if c.Name != "" && name == defaultName {
		return c.Name
	}
	return name
}

// Register installs the filters for whichever values are configured.
func Register(host hooks.Host, c Config) {
	if c.Address != "" {
		host.RegisterFilter(hooks.FilterMailFrom, func(_ context.Context, v string) string {
			return c.FilterAddress(v)
		}, hooks.DefaultPriority)
		if logger.DebugEnabled() {
			logger.Debug("[Quant] Email 'from' address filter applied", zap.String("address", c.Address))
		}
	}
	if c.Name != "" {
		host.RegisterFilter(hooks.FilterMailFromName, func(_ context.Context, v string) string {
			return c.FilterName(v)
		}, hooks.DefaultPriority)
		if logger.DebugEnabled() {
			logger.Debug("[Quant] Email 'from' name filter applied", zap.String("name", c.Name))
		}
	}
}
