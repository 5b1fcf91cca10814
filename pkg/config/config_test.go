package config

import (
	"errors"
	"path/filepath"
	"testing"

	"quantwp/pkg/envsource"
	"quantwp/pkg/settings"
	"quantwp/pkg/settings/memstore"
)

func TestLoadConfig(t *testing.T) {
	// 测试默认配置
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	if cfg.Store == nil || cfg.Settings == nil || cfg.Edge == nil {
		t.Fatal("default sections should not be nil")
	}
	if cfg.Settings.Key != settings.DefaultKey {
		t.Errorf("Expected settings key %s, got %s", settings.DefaultKey, cfg.Settings.Key)
	}
	if err := cfg.ValidateConfig(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "config.yaml")

	originalConfig := &Config{
		Server: &ServerConfig{Port: 9090, Address: "127.0.0.1"},
		App:    &AppConfig{LogLevel: "debug", LogFile: "/tmp/test.log"},
		Store:  &StoreConfig{Driver: "badger", DSN: "/var/lib/quantwp"},
		Site:   &SiteConfig{HomeURL: "https://www.example.com"},
	}

	if err := SaveConfig(originalConfig, tempFile); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedConfig, err := LoadConfig(tempFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedConfig.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", loadedConfig.Server.Port)
	}
	if loadedConfig.Store.Driver != "badger" {
		t.Errorf("Expected driver badger, got %s", loadedConfig.Store.Driver)
	}
	if loadedConfig.Site.HomeURL != "https://www.example.com" {
		t.Errorf("Expected home url, got %s", loadedConfig.Site.HomeURL)
	}
	// sections missing from the file fall back to defaults
	if loadedConfig.Sync == nil || loadedConfig.Edge == nil {
		t.Fatal("missing sections should be defaulted")
	}
}

func TestConfigWithEnvVars(t *testing.T) {
	t.Setenv("SERVER_PORT", "9002")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SETTINGS_KEY", "custom_settings")
	t.Setenv("EDGE_HOST_HEADER", "X-Orig-Host")

	tempFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveConfig(&Config{Server: &ServerConfig{Port: 8081}, Settings: &SettingsConfig{Key: "x"}}, tempFile); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	cfg, err := LoadConfig(tempFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9002 {
		t.Errorf("Expected port 9002, got %d", cfg.Server.Port)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.App.LogLevel)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("Expected driver memory, got %s", cfg.Store.Driver)
	}
	if cfg.Settings.Key != "custom_settings" {
		t.Errorf("Expected settings key override, got %s", cfg.Settings.Key)
	}
	if cfg.Edge.OrigHostHeader != "X-Orig-Host" {
		t.Errorf("Expected edge header override, got %s", cfg.Edge.OrigHostHeader)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, ErrInvalidValue},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, ErrInvalidValue},
		{"sqlite without dsn", func(c *Config) { c.Store.Driver = "sqlite"; c.Store.DSN = "" }, ErrStoreConfig},
		{"bad cron", func(c *Config) { c.Sync.Cron = "every minute" }, ErrInvalidCron},
		{"bad cron ignored when disabled", func(c *Config) { c.Sync.Enabled = false; c.Sync.Cron = "nope" }, nil},
		{"descriptor cron", func(c *Config) { c.Sync.Cron = "@hourly" }, nil},
		{"bad home url", func(c *Config) { c.Site.HomeURL = "not a url" }, ErrInvalidValue},
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }, ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := getDefaultConfig()
			c.Store.Driver = "sqlite"
			c.Store.DSN = "test.db"
			c.Sync.Enabled = true
			c.Sync.Cron = "*/5 * * * *"
			c.App.LogLevel = "info"
			c.Server.Port = 8080
			tt.mutate(c)

			err := c.ValidateConfig()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateConfig() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *StoreConfig
		wantErr error
	}{
		{"memory", &StoreConfig{Driver: "memory"}, nil},
		{"sqlite", &StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "opts.db")}, nil},
		{"badger in memory", &StoreConfig{Driver: "badger"}, nil},
		{"unknown", &StoreConfig{Driver: "redis"}, settings.ErrUnknownDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := OpenStore(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OpenStore() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("OpenStore() error = %v", err)
			}
			defer s.Close()
			if tt.cfg.Driver == "memory" {
				if _, ok := s.(*memstore.Store); !ok {
					t.Errorf("expected *memstore.Store, got %T", s)
				}
			}
		})
	}
}

func TestDebugEnabled(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"unset", map[string]string{}, false},
		{"empty values", map[string]string{"LOG_DEBUG": "", "QUANT_DEBUG": ""}, false},
		{"log debug", map[string]string{"LOG_DEBUG": "1"}, true},
		{"quant debug any value", map[string]string{"QUANT_DEBUG": "false"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DebugEnabled(envsource.FromMap(tt.env)); got != tt.want {
				t.Errorf("DebugEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
