package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Report defaults mirror the original chart set
	if cfg.Report.HistogramBins != 10 {
		t.Errorf("expected histogram_bins 10, got %d", cfg.Report.HistogramBins)
	}
	if cfg.Report.WidthInches != 10 || cfg.Report.HeightInches != 6 {
		t.Errorf("expected 10x6 figure, got %vx%v", cfg.Report.WidthInches, cfg.Report.HeightInches)
	}
	if cfg.Report.HeatmapHeight != 8 {
		t.Errorf("expected heatmap height 8, got %v", cfg.Report.HeatmapHeight)
	}
	if cfg.Report.Manifest {
		t.Error("expected manifest disabled by default")
	}

	// Input defaults
	if cfg.Input.Sheet != "" {
		t.Errorf("expected empty sheet, got %q", cfg.Input.Sheet)
	}
	if len(cfg.Input.DateLayouts) != len(DefaultDateLayouts) {
		t.Errorf("expected %d date layouts, got %d", len(DefaultDateLayouts), len(cfg.Input.DateLayouts))
	}

	// Database defaults
	if cfg.Database.Port != 3306 {
		t.Errorf("expected database port 3306, got %d", cfg.Database.Port)
	}
	if cfg.Database.TLS != "preferred" {
		t.Errorf("expected database TLS 'preferred', got %s", cfg.Database.TLS)
	}

	// Publishing is opt-in
	if cfg.Publish.S3.Enabled {
		t.Error("expected s3 publishing disabled by default")
	}

	// Logging goes to stderr so stdout only carries the tables
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected logging output 'stderr', got %s", cfg.Logging.Output)
	}
}

func TestDefaultConfigLayoutsAreCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.DateLayouts[0] = "changed"

	if DefaultDateLayouts[0] == "changed" {
		t.Error("DefaultConfig must not share the DefaultDateLayouts backing array")
	}
}

func TestDefaultDateLayoutsMonthFirst(t *testing.T) {
	// "05/01/2020" must only ever mean May 1st
	for _, layout := range DefaultDateLayouts {
		parsed, err := time.Parse(layout, "05/01/2020")
		if err != nil {
			continue
		}
		if parsed.Month() != time.May || parsed.Day() != 1 {
			t.Errorf("layout %q read 05/01/2020 as %s", layout, parsed.Format("2006-01-02"))
		}
	}

	// No default layout reads a day-first slash date
	for _, layout := range DefaultDateLayouts {
		if parsed, err := time.Parse(layout, "13/01/2020"); err == nil {
			t.Errorf("layout %q accepted 13/01/2020 as %s", layout, parsed.Format("2006-01-02"))
		}
	}
}
