package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig 从指定路径加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	// 如果配置文件不存在，返回默认配置
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	config := &Config{}
	ext := filepath.Ext(configPath)

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: JSON parsing failed: %v", ErrInvalidFormat, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: YAML parsing failed: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	mergeEnvVars(config)
	return config, nil
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	ext := filepath.Ext(configPath)
	var data []byte
	var err error

	switch ext {
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	if err != nil {
		return fmt.Errorf("config serialization failed: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getDefaultConfigPath 获取默认配置文件路径
// 优先级：当前目录 > 用户配置目录 > 系统配置目录
func getDefaultConfigPath() string {
	paths := []string{
		"./config.yaml",
		"./config.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".quantwp", "config.yaml"),
			filepath.Join(homeDir, ".quantwp", "config.json"),
		)
	}

	paths = append(paths,
		"/etc/quantwp/config.yaml",
		"/etc/quantwp/config.json",
	)

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./config.yaml"
}

// mergeEnvVars 将环境变量合并到配置中，缺失的配置段使用默认值
func mergeEnvVars(config *Config) {
	mergeServerEnvVars(config)
	mergeAppEnvVars(config)
	mergeStoreEnvVars(config)
	mergeSyncEnvVars(config)
	mergeEdgeEnvVars(config)
	mergeAuditEnvVars(config)

	if config.Settings == nil {
		config.Settings = NewSettingsConfig()
	} else if key := os.Getenv("SETTINGS_KEY"); key != "" {
		config.Settings.Key = key
	}
	if config.Site == nil {
		config.Site = &SiteConfig{}
	}
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		config.EnvFile = envFile
	}
}

func mergeServerEnvVars(config *Config) {
	if config.Server == nil {
		config.Server = NewServerConfig()
		return
	}
	if port := getEnvInt("SERVER_PORT", 0); port != 0 {
		config.Server.Port = port
	}
	if address := os.Getenv("SERVER_ADDRESS"); address != "" {
		config.Server.Address = address
	}
}

func mergeAppEnvVars(config *Config) {
	if config.App == nil {
		config.App = NewAppConfig()
		return
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.App.LogLevel = logLevel
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		config.App.LogFile = logFile
	}
}

func mergeStoreEnvVars(config *Config) {
	if config.Store == nil {
		config.Store = NewStoreConfig()
		return
	}
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		config.Store.Driver = driver
	}
	if dsn := os.Getenv("STORE_DSN"); dsn != "" {
		config.Store.DSN = dsn
	}
}

func mergeSyncEnvVars(config *Config) {
	if config.Sync == nil {
		config.Sync = NewSyncConfig()
		return
	}
	if cron := os.Getenv("SYNC_CRON"); cron != "" {
		config.Sync.Cron = cron
	}
	if enabled := os.Getenv("SYNC_ENABLED"); enabled != "" {
		config.Sync.Enabled = enabled == "true" || enabled == "1"
	}
}

func mergeEdgeEnvVars(config *Config) {
	if config.Edge == nil {
		config.Edge = NewEdgeConfig()
		return
	}
	if header := os.Getenv("EDGE_HOST_HEADER"); header != "" {
		config.Edge.OrigHostHeader = header
	}
}

func mergeAuditEnvVars(config *Config) {
	if config.Audit == nil {
		config.Audit = NewAuditConfig()
		return
	}
	if url := os.Getenv("AUDIT_WEBHOOK_URL"); url != "" {
		config.Audit.WebhookURL = url
	}
}
