package config

import "errors"

// Configuration-related error definitions using sentinel errors pattern
var (
	// Generic errors
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidFormat  = errors.New("invalid configuration file format")

	// Configuration validation errors
	ErrMissingRequired = errors.New("missing required configuration item")
	ErrInvalidValue    = errors.New("invalid configuration value")

	// Store configuration errors
	ErrStoreConfig = errors.New("store configuration error")

	// Scheduler configuration errors
	ErrInvalidCron = errors.New("invalid Cron expression")
)
