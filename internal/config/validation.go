package config

import (
	"fmt"
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
// Database settings are only checked by ValidateDatabase, since most runs
// read a spreadsheet.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateInput()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validatePublish()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateDatabase checks the settings needed to read a mysql:<table> input.
func (c *Config) ValidateDatabase() error {
	var errors ValidationErrors
	db := &c.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateInput() ValidationErrors {
	var errors ValidationErrors

	if len(c.Input.DateLayouts) == 0 {
		errors = append(errors, ValidationError{
			Field:   "input.date_layouts",
			Message: "at least one date layout is required",
		})
	}

	for i, layout := range c.Input.DateLayouts {
		if strings.TrimSpace(layout) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("input.date_layouts[%d]", i),
				Message: "layout cannot be empty",
			})
		}
	}

	return errors
}

func (c *Config) validateReport() ValidationErrors {
	var errors ValidationErrors

	if c.Report.HistogramBins <= 0 {
		errors = append(errors, ValidationError{
			Field:   "report.histogram_bins",
			Message: "histogram_bins must be positive",
		})
	}

	if c.Report.DensityPoints < 2 {
		errors = append(errors, ValidationError{
			Field:   "report.density_points",
			Message: "density_points must be at least 2",
		})
	}

	if c.Report.WidthInches <= 0 || c.Report.HeightInches <= 0 || c.Report.HeatmapHeight <= 0 {
		errors = append(errors, ValidationError{
			Field:   "report.width_inches",
			Message: "image dimensions must be positive",
		})
	}

	if c.Report.FloatPrecision < 0 || c.Report.FloatPrecision > 12 {
		errors = append(errors, ValidationError{
			Field:   "report.float_precision",
			Message: "float_precision must be between 0 and 12",
		})
	}

	return errors
}

func (c *Config) validatePublish() ValidationErrors {
	var errors ValidationErrors

	if c.Publish.S3.Enabled && c.Publish.S3.Bucket == "" {
		errors = append(errors, ValidationError{
			Field:   "publish.s3.bucket",
			Message: "bucket is required when s3 publishing is enabled",
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
