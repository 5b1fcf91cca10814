package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var validate = validator.New()

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateConfig 验证完整的配置：结构体标签 + 自定义规则
func (c *Config) ValidateConfig() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if err := c.validateStoreConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreConfig, err)
	}

	if c.Sync.Enabled {
		if err := ValidateCron(c.Sync.Cron); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateStoreConfig() error {
	if c.Store.Driver == "sqlite" && c.Store.DSN == "" {
		return fmt.Errorf("%w: store.dsn", ErrMissingRequired)
	}
	return nil
}

// ValidateCron checks a standard five-field cron expression or descriptor
func ValidateCron(expr string) error {
	if expr == "" {
		return fmt.Errorf("%w: empty expression", ErrInvalidCron)
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidCron, expr, err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%w: %s failed on '%s' (value: %v)",
			ErrInvalidValue, e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
