package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds optional per-report overrides loaded from a YAML file.
type Config struct {
	Reports map[string]ReportOverride `yaml:"reports,omitempty"`
}

// ReportOverride adjusts one report variant without touching its
// built-in cell layout.
type ReportOverride struct {
	// Workbook overrides the default WIRED workbook path
	Workbook string `yaml:"workbook,omitempty"`

	// ReadyOut overrides the default READY output path
	ReadyOut string `yaml:"ready_out,omitempty"`

	// CSVPatterns overrides the glob patterns per data sheet,
	// e.g. Data_Metrics: ["Metrics.csv", "*metrics*.csv"]
	CSVPatterns map[string][]string `yaml:"csv_patterns,omitempty"`
}

// DefaultConfigPath returns ~/.report-refresh/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".report-refresh", "config.yaml")
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Apply rewrites the report's paths and feed patterns from the config.
func (c *Config) Apply(rep *Report) {
	if c == nil || c.Reports == nil {
		return
	}
	ov, ok := c.Reports[rep.Name]
	if !ok {
		return
	}
	if ov.Workbook != "" {
		rep.Workbook = ov.Workbook
	}
	if ov.ReadyOut != "" {
		rep.ReadyOut = ov.ReadyOut
	}
	for i := range rep.Feeds {
		if pats, ok := ov.CSVPatterns[rep.Feeds[i].Sheet]; ok && len(pats) > 0 {
			rep.Feeds[i].Patterns = pats
		}
	}
}
