// validation.go - Startup validation of the loaded configuration.
//
// Errors are collected rather than returned one by one so that a bad
// deployment reports every problem at once.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates configuration errors.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates an empty validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// AddError records a validation error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// ErrorString returns a formatted string of all errors.
func (v *Validator) ErrorString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n", len(v.errors)))
	for i, err := range v.errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidatePort validates that a value is a valid port number.
func (v *Validator) ValidatePort(key, value string) {
	if value == "" {
		v.AddError(key, "port must not be empty")
		return
	}

	port, err := strconv.Atoi(strings.TrimPrefix(value, ":"))
	if err != nil {
		v.AddError(key, "port must be a number")
		return
	}

	if port < 1 || port > 65535 {
		v.AddError(key, "port must be between 1 and 65535")
	}
}

// ValidateEnum validates that a value is one of allowed options.
func (v *Validator) ValidateEnum(key, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}

	v.AddError(key, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// ValidateNonNegative validates that a number is zero or greater.
func (v *Validator) ValidateNonNegative(key string, value int) {
	if value < 0 {
		v.AddError(key, "must not be negative")
	}
}

// ValidateEndpoint accepts either host:port or an http(s) URL without a path.
func (v *Validator) ValidateEndpoint(key, value string) {
	if value == "" || !strings.Contains(value, "://") {
		return
	}

	parsed, err := url.Parse(value)
	if err != nil {
		v.AddError(key, fmt.Sprintf("invalid URL format: %v", err))
		return
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		v.AddError(key, "URL must use http or https scheme")
	}
}

// Validate checks a loaded configuration and returns every problem found.
func Validate(cfg *Config) error {
	v := NewValidator()

	v.ValidateEnum("DB_DRIVER", cfg.Driver, []string{"mysql", "postgres"})
	v.ValidateEnum("DB_SSLMODE", cfg.SSLMode, []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"})
	v.ValidateNonNegative("DB_MAX_CONNECTIONS", cfg.MaxConnections)
	if cfg.ConnectTimeout < 0 {
		v.AddError("DB_CONNECT_TIMEOUT", "must not be negative")
	}

	v.ValidatePort("PORT", cfg.Port)

	if cfg.AssetsFromBucket() {
		if cfg.AssetsEndpoint == "" || cfg.AssetsAccessKey == "" || cfg.AssetsSecretKey == "" {
			v.AddError("ASSETS_BUCKET", "requires ASSETS_S3_ENDPOINT, ASSETS_S3_ACCESS_KEY and ASSETS_S3_SECRET_KEY")
		}
		v.ValidateEndpoint("ASSETS_S3_ENDPOINT", cfg.AssetsEndpoint)
	} else if cfg.StaticDir == "" {
		v.AddError("STATIC_DIR", "must not be empty when ASSETS_BUCKET is unset")
	}

	v.ValidateEnum("LOG_FORMAT", cfg.LogFormat, []string{"json", "text"})
	v.ValidateEnum("LOG_LEVEL", cfg.LogLevel, []string{"debug", "info", "warn", "error"})

	if v.HasErrors() {
		return fmt.Errorf("%s", v.ErrorString())
	}
	return nil
}

// Warnings lists optional but recommended settings that are missing.
func Warnings(cfg *Config) []string {
	warnings := make([]string, 0)

	if cfg.Host == "" {
		warnings = append(warnings, "DB_HOST not set - connections go to the driver default host")
	}

	if cfg.User == "" {
		warnings = append(warnings, "DB_USER not set - connecting without a user name")
	}

	if len(cfg.Instances()) == 0 {
		warnings = append(warnings, "DB_ALLOWED_INSTANCES not set - every database on the server is reachable")
	}

	if cfg.MaxConnections == 0 {
		warnings = append(warnings, "DB_MAX_CONNECTIONS is 0 - concurrent connections are unbounded")
	}

	return warnings
}
