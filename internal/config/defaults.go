package config

import (
	"strings"
	"time"
)

// Defaults of the configuration surface.
const (
	DefaultIndexPage      = "index"
	DefaultLanguage       = "csharp"
	DefaultWorkers        = 1
	DefaultMaxExampleSize = 256 << 10
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultDebounce       = 500 * time.Millisecond
)

// Default returns a configuration with every default applied and no inputs.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields. Enumerations are case-folded.
func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if strings.TrimSpace(c.Output.IndexPage) == "" {
		c.Output.IndexPage = DefaultIndexPage
	}
	c.Output.IndexPage = strings.TrimSuffix(strings.TrimSpace(c.Output.IndexPage), ".md")
	if c.Render.Language == "" {
		c.Render.Language = DefaultLanguage
	}
	if c.Render.Workers <= 0 {
		c.Render.Workers = DefaultWorkers
	}
	if c.Render.MaxExampleSize <= 0 {
		c.Render.MaxExampleSize = DefaultMaxExampleSize
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	// Link bases default to the documentation location as written, which
	// is what a relative link from the generated pages needs.
	for i := range c.Links.Dependencies {
		if strings.TrimSpace(c.Links.Dependencies[i].Base) == "" {
			c.Links.Dependencies[i].Base = c.Links.Dependencies[i].Path
		}
	}
	if c.Catalog.Path != "" && strings.TrimSpace(c.Catalog.Base) == "" {
		c.Catalog.Base = c.Output.Dir
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultDebounce
	}
}
