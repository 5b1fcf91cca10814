package config

import (
	"time"

	"quantwp/pkg/envsource"
	"quantwp/pkg/hostctx"
	"quantwp/pkg/settings"
)

// Config is the top-level service configuration
type Config struct {
	Server   *ServerConfig   `json:"server" yaml:"server" validate:"required"`
	App      *AppConfig      `json:"app" yaml:"app" validate:"required"`
	Store    *StoreConfig    `json:"store" yaml:"store" validate:"required"`
	Settings *SettingsConfig `json:"settings" yaml:"settings" validate:"required"`
	Sync     *SyncConfig     `json:"sync" yaml:"sync" validate:"required"`
	Edge     *EdgeConfig     `json:"edge" yaml:"edge" validate:"required"`
	Site     *SiteConfig     `json:"site" yaml:"site"`
	Audit    *AuditConfig    `json:"audit" yaml:"audit"`

	// EnvFile is an optional dotenv/YAML file layered over the process environment.
	EnvFile string `json:"env_file" yaml:"env_file"`
}

type ServerConfig struct {
	Port            int    `json:"port" yaml:"port" validate:"min=1,max=65535"`
	Address         string `json:"address" yaml:"address"`
	ShutdownTimeout int    `json:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=0"` // seconds
}

type AppConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error fatal"`
	LogFile     string `json:"log_file" yaml:"log_file"`
	Environment string `json:"environment" yaml:"environment" validate:"omitempty,oneof=development production"`
}

// StoreConfig selects the option storage backend. DSN is a sqlite file for
// "sqlite" and a directory for "badger"; empty badger DSN means in-memory.
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver" validate:"required,oneof=sqlite badger memory"`
	DSN    string `json:"dsn" yaml:"dsn"`
}

type SettingsConfig struct {
	Key string `json:"key" yaml:"key"`
}

type SyncConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Cron    string `json:"cron" yaml:"cron"`
	// RateLimit bounds manual sync requests per minute.
	RateLimit int `json:"rate_limit" yaml:"rate_limit" validate:"min=0"`
}

type EdgeConfig struct {
	OrigHostHeader string `json:"orig_host_header" yaml:"orig_host_header" validate:"required"`
}

// SiteConfig holds statically configured URLs; they win over per-request values.
type SiteConfig struct {
	HomeURL string `json:"home_url" yaml:"home_url" validate:"omitempty,url"`
	SiteURL string `json:"site_url" yaml:"site_url" validate:"omitempty,url"`
}

type AuditConfig struct {
	WebhookURL string `json:"webhook_url" yaml:"webhook_url" validate:"omitempty,url"`
	MaxRetries int    `json:"max_retries" yaml:"max_retries" validate:"min=0,max=10"`
	RetryDelay int    `json:"retry_delay" yaml:"retry_delay" validate:"min=0"` // seconds
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvInt("SERVER_PORT", 8080),
		Address:         getEnv("SERVER_ADDRESS", "0.0.0.0"),
		ShutdownTimeout: 10,
	}
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		Environment: getEnv("APP_ENV", "production"),
	}
}

func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		Driver: getEnv("STORE_DRIVER", "sqlite"),
		DSN:    getEnv("STORE_DSN", "quantwp.db"),
	}
}

func NewSettingsConfig() *SettingsConfig {
	return &SettingsConfig{Key: getEnv("SETTINGS_KEY", settings.DefaultKey)}
}

func NewSyncConfig() *SyncConfig {
	return &SyncConfig{
		Enabled:   getEnvBool("SYNC_ENABLED", true),
		Cron:      getEnv("SYNC_CRON", "*/5 * * * *"),
		RateLimit: 6,
	}
}

func NewEdgeConfig() *EdgeConfig {
	return &EdgeConfig{OrigHostHeader: getEnv("EDGE_HOST_HEADER", hostctx.DefaultOrigHostHeader)}
}

func NewAuditConfig() *AuditConfig {
	return &AuditConfig{
		WebhookURL: getEnv("AUDIT_WEBHOOK_URL", ""),
		MaxRetries: 3,
		RetryDelay: 2,
	}
}

// getDefaultConfig returns a configuration built only from defaults and env
func getDefaultConfig() *Config {
	return &Config{
		Server:   NewServerConfig(),
		App:      NewAppConfig(),
		Store:    NewStoreConfig(),
		Settings: NewSettingsConfig(),
		Sync:     NewSyncConfig(),
		Edge:     NewEdgeConfig(),
		Site:     &SiteConfig{},
		Audit:    NewAuditConfig(),
		EnvFile:  getEnv("ENV_FILE", ""),
	}
}

// RetryDelayDuration converts the configured delay to a time.Duration
func (a *AuditConfig) RetryDelayDuration() time.Duration {
	return time.Duration(a.RetryDelay) * time.Second
}

// ShutdownTimeoutDuration converts the configured timeout to a time.Duration
func (s *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// DebugEnabled reports whether LOG_DEBUG or QUANT_DEBUG is set to any non-empty value.
func DebugEnabled(src envsource.Source) bool {
	_, logDebug := src.LookupNonEmpty("LOG_DEBUG")
	_, quantDebug := src.LookupNonEmpty("QUANT_DEBUG")
	return logDebug || quantDebug
}
