package fcreport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/fcreport-go/pkg/fcreport/filter"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
	"gopkg.in/yaml.v2"
)

// DefaultFiles are the workbook exports read when nothing else is configured.
var DefaultFiles = []string{"data/TFC_0_6.xlsx", "data/FinanceReport (6).xlsx"}

// Environment variables read by ApplyEnv.
const (
	EnvFiles    = "FCREPORT_FILES"
	EnvPassword = "FCREPORT_PASSWORD"
	EnvLogLevel = "FCREPORT_LOG_LEVEL"
)

// Config is the startup configuration, read from a YAML file and the environment.
type Config struct {
	Files         []string            `yaml:"files"`
	Password      string              `yaml:"password"`
	UsePrintAreas bool                `yaml:"use_print_areas"`
	LogLevel      string              `yaml:"log_level"`
	Mapping       map[string]string   `yaml:"mapping"`
	Filters       map[string][]string `yaml:"filters"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv fills unset settings from the environment.
func (c *Config) ApplyEnv() {
	if len(c.Files) == 0 {
		if v := os.Getenv(EnvFiles); v != "" {
			c.Files = filepath.SplitList(v)
		}
	}
	if c.Password == "" {
		c.Password = os.Getenv(EnvPassword)
	}
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv(EnvLogLevel)
	}
}

// Paths returns the configured workbook paths, or DefaultFiles.
func (c *Config) Paths() []string {
	if len(c.Files) > 0 {
		return c.Files
	}
	return DefaultFiles
}

// Overrides parses the mapping section. "none" explicitly unmaps a field.
func (c *Config) Overrides() (schema.Overrides, error) {
	out := make(schema.Overrides, len(c.Mapping))
	for name, col := range c.Mapping {
		f, err := schema.ParseField(name)
		if err != nil {
			return nil, err
		}
		out[f] = schema.ParseChoice(col)
	}
	return out, nil
}

// Selection parses the filters section.
func (c *Config) Selection() (filter.Selection, error) {
	sel := make(filter.Selection)
	for name, values := range c.Filters {
		dim, err := filter.ParseDimension(name)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			sel.Add(dim, strings.TrimSpace(v))
		}
	}
	return sel, nil
}

// LoadOptions returns the load options this config implies.
func (c *Config) LoadOptions() Options {
	opts := DefaultOptions()
	opts.Password = c.Password
	opts.UsePrintAreas = c.UsePrintAreas
	return opts
}
