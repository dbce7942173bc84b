// Package config provides configuration management for the Food Club calculator.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails for empty tags or nil functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("model", validateModel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("validation failed: nil configuration")
	}
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateModel validates the probability model name
func validateModel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "legacy", "logit":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Calculator.MaxBet > 0 && cfg.Calculator.BetAmount > cfg.Calculator.MaxBet {
		return fmt.Errorf("bet_amount %d cannot exceed max_bet %d", cfg.Calculator.BetAmount, cfg.Calculator.MaxBet)
	}

	if IsRemote(cfg.Source.BaseURL) {
		if _, err := url.ParseRequestURI(cfg.Source.BaseURL); err != nil {
			return fmt.Errorf("invalid source base_url: %w", err)
		}
	}

	if cfg.Source.CurrentRoundCacheSeconds > cfg.Source.RoundCacheSeconds {
		return fmt.Errorf("current_round_cache_seconds cannot exceed round_cache_seconds")
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" && cfg.Metrics.TextfilePath == "" {
		return fmt.Errorf("metrics enabled but neither address nor textfile_path is set")
	}

	return nil
}

// IsRemote reports whether a source base URL points at an HTTP host
func IsRemote(baseURL string) bool {
	return strings.HasPrefix(baseURL, "http://") || strings.HasPrefix(baseURL, "https://")
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&errMsg, "- Field '%s' is required\n", field)
		case "min", "max":
			fmt.Fprintf(&errMsg, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&errMsg, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "model":
			fmt.Fprintf(&errMsg, "- Field '%s' must be one of: legacy, logit, got '%v'\n", field, value)
		default:
			fmt.Fprintf(&errMsg, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg.String())
}
