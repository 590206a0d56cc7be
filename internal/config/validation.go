package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if err := c.validateScraper(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateOutput(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateScraper() ValidationErrors {
	var errors ValidationErrors

	if c.Scraper.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "scraper.base_url",
			Message: "base_url is required",
		})
	} else if err := validateHTTPURL(c.Scraper.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "scraper.base_url",
			Message: err.Error(),
		})
	}

	if c.Scraper.APIURL != "" {
		if err := validateHTTPURL(c.Scraper.APIURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "scraper.api_url",
				Message: err.Error(),
			})
		}
	}

	if c.Scraper.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.timeout_seconds",
			Message: "timeout_seconds must be positive",
		})
	}

	return errors
}

func (c *Config) validateOutput() ValidationErrors {
	var errors ValidationErrors

	if c.Output.JSONIndent < 0 {
		errors = append(errors, ValidationError{
			Field:   "output.json_indent",
			Message: "json_indent cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("URL host is required")
	}
	return nil
}
