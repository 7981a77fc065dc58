// Package config provides configuration structures and loading for GoReport.
package config

import "time"

// Config represents the complete application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Publish  PublishConfig  `yaml:"publish" mapstructure:"publish"`
	Metrics  MetricsConfig  `yaml:"metrics" mapstructure:"metrics"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// InputConfig controls how the input record set is read.
type InputConfig struct {
	Sheet       string   `yaml:"sheet" mapstructure:"sheet"`               // workbook sheet, empty = first sheet
	DateLayouts []string `yaml:"date_layouts" mapstructure:"date_layouts"` // Go time layouts tried in order
}

// ReportConfig controls the derived views and their rendering.
type ReportConfig struct {
	HistogramBins  int     `yaml:"histogram_bins" mapstructure:"histogram_bins"`
	DensityPoints  int     `yaml:"density_points" mapstructure:"density_points"`
	WidthInches    float64 `yaml:"width_inches" mapstructure:"width_inches"`
	HeightInches   float64 `yaml:"height_inches" mapstructure:"height_inches"`
	HeatmapHeight  float64 `yaml:"heatmap_height_inches" mapstructure:"heatmap_height_inches"`
	FloatPrecision int     `yaml:"float_precision" mapstructure:"float_precision"`
	Manifest       bool    `yaml:"manifest" mapstructure:"manifest"`
}

// DatabaseConfig represents the MySQL connection used by mysql:<table> inputs.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// PublishConfig represents optional artifact publishing.
type PublishConfig struct {
	S3 S3Config `yaml:"s3" mapstructure:"s3"`
}

// S3Config represents the bucket the rendered artifacts are copied to.
type S3Config struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Bucket  string `yaml:"bucket" mapstructure:"bucket"`
	Prefix  string `yaml:"prefix" mapstructure:"prefix"`
	Region  string `yaml:"region" mapstructure:"region"`
}

// MetricsConfig represents run metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"` // node_exporter textfile path, empty = off
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultDateLayouts are tried, in order, when parsing Joining_Date values.
// Slash dates are read month first; set input.date_layouts for day-first data.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"1/2/06 15:04",
	"2006/01/02",
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			DateLayouts: append([]string(nil), DefaultDateLayouts...),
		},
		Report: ReportConfig{
			HistogramBins:  10,
			DensityPoints:  200,
			WidthInches:    10,
			HeightInches:   6,
			HeatmapHeight:  8,
			FloatPrecision: 6,
			Manifest:       false,
		},
		Database: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		Publish: PublishConfig{
			S3: S3Config{
				Enabled: false,
				Prefix:  "goreport",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
