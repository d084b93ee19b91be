package config

import (
	"fmt"
	"os"

	"github.com/locvowork/stockcount/internal/engine"
	"github.com/locvowork/stockcount/pkg/simpleexcelv3"
	"gopkg.in/yaml.v3"
)

// ReportConfig is the YAML file selecting the optional parts of the report.
type ReportConfig struct {
	Summary struct {
		IncludeBarcode bool `yaml:"include_barcode"`
	} `yaml:"summary"`
	AllProducts struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"all_products"`
	Debug struct {
		EchoScheduleDates bool `yaml:"echo_schedule_dates"`
	} `yaml:"debug"`
	Layout struct {
		ColumnPadding        int                          `yaml:"column_padding"`
		FreezeHeader         bool                         `yaml:"freeze_header"`
		AutoFilter           bool                         `yaml:"auto_filter"`
		LockReferenceColumns bool                         `yaml:"lock_reference_columns"`
		HeaderStyle          *simpleexcelv3.StyleTemplate `yaml:"header_style"`
	} `yaml:"layout"`
}

// DefaultReportConfig reproduces the plain report: no barcode in the
// summary, no All Products sheet, bold headers.
func DefaultReportConfig() *ReportConfig {
	cfg := &ReportConfig{}
	cfg.Layout.ColumnPadding = engine.DefaultColumnPadding
	cfg.Layout.HeaderStyle = simpleexcelv3.DefaultHeaderStyle()
	return cfg
}

// ParseReportConfig decodes YAML over the defaults.
func ParseReportConfig(data []byte) (*ReportConfig, error) {
	cfg := DefaultReportConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode report config: %w", err)
	}
	if cfg.Layout.ColumnPadding < 0 {
		return nil, fmt.Errorf("layout.column_padding must not be negative, got %d", cfg.Layout.ColumnPadding)
	}
	return cfg, nil
}

// LoadReportConfig reads path, or returns the defaults when path is empty.
func LoadReportConfig(path string) (*ReportConfig, error) {
	if path == "" {
		return DefaultReportConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report config: %w", err)
	}
	return ParseReportConfig(data)
}

// EngineOptions maps the file onto layout options.
func (c *ReportConfig) EngineOptions() engine.Options {
	return engine.Options{
		IncludeSummaryBarcode: c.Summary.IncludeBarcode,
		IncludeAllProducts:    c.AllProducts.Enabled,
		ColumnPadding:         c.Layout.ColumnPadding,
		FreezeHeader:          c.Layout.FreezeHeader,
		AutoFilter:            c.Layout.AutoFilter,
		LockReferenceColumns:  c.Layout.LockReferenceColumns,
		HeaderStyle:           c.Layout.HeaderStyle,
	}
}
