package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/giantswarm/authsession/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is one of the allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks c and returns every problem found.
func Validate(c Config) ValidationErrors {
	var errs ValidationErrors

	if c.HTTP.BaseURL != "" {
		u, err := url.Parse(c.HTTP.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("http.baseUrl", "must be an absolute http(s) URL", c.HTTP.BaseURL)
		}
	}
	if c.HTTP.Timeout < 0 {
		errs.Add("http.timeout", "must not be negative", c.HTTP.Timeout)
	}
	if c.HTTP.RetryMax < 0 {
		errs.Add("http.retryMax", "must not be negative", c.HTTP.RetryMax)
	}
	for name := range c.HTTP.Headers {
		if strings.TrimSpace(name) == "" {
			errs.Add("http.headers", "header names cannot be empty")
		}
	}

	if strings.TrimSpace(c.Token.ReadAs) == "" {
		errs.Add("token.readAs", "is required")
	}
	if strings.TrimSpace(c.Token.StoreAs) == "" {
		errs.Add("token.storeAs", "is required")
	}

	if c.Storage.Driver != "" {
		if err := ValidateOneOf("storage.driver", c.Storage.Driver, []string{"file", "memory"}); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		errs.Add("log.level", "must be one of: debug, info, warn, error", c.Log.Level)
	}

	return errs
}
