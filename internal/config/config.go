// Package config loads the optional xmldocmd configuration file.
//
// A configuration file is YAML with ${VAR} expansion. Variables may come from
// the process environment or from .env files loaded beforehand. CLI flags
// override file values; the CLI applies them after Load.
package config

import (
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the configuration format version this build reads.
const CurrentVersion = "1"

// Config is the complete tool configuration.
type Config struct {
	Version string        `yaml:"version" validate:"omitempty,eq=1"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Links   LinksConfig   `yaml:"links"`
	Render  RenderConfig  `yaml:"render"`
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// InputConfig names the files a run reads.
type InputConfig struct {
	Surface  string `yaml:"surface" validate:"required"`  // type surface manifest (.json, .yaml, .yml)
	Comments string `yaml:"comments" validate:"required"` // XML documentation-comment file
	Examples string `yaml:"examples,omitempty"`           // directory of example snippets
}

// OutputConfig controls what a run writes.
type OutputConfig struct {
	Dir         string `yaml:"dir" validate:"required"`
	IndexPage   string `yaml:"index_page" validate:"required,excludesall=/\\"`
	Metadata    bool   `yaml:"metadata"`
	FrontMatter bool   `yaml:"front_matter"`
	VerifyLinks bool   `yaml:"verify_links"`
}

// LinksConfig selects the link convention and dependency resolution.
type LinksConfig struct {
	GitHubPages     bool               `yaml:"github_pages"`
	Wiki            bool               `yaml:"wiki"`
	DependencyLinks bool               `yaml:"dependency_links"`
	Dependencies    []DependencyConfig `yaml:"dependencies,omitempty" validate:"dive"`
}

// DependencyConfig points at the generated documentation of a referenced
// module. Path is a directory holding that module's *.meta.json sidecars;
// Base is the link prefix under which its pages are reachable.
type DependencyConfig struct {
	Module string `yaml:"module" validate:"required"`
	Path   string `yaml:"path" validate:"required"`
	Base   string `yaml:"base,omitempty"`
}

// RenderConfig controls page content.
type RenderConfig struct {
	BackButton       bool   `yaml:"back_button"`
	IncludeNonPublic bool   `yaml:"include_non_public"`
	Language         string `yaml:"language" validate:"required"`
	Workers          int    `yaml:"workers" validate:"min=1,max=64"`
	MaxExampleSize   int64  `yaml:"max_example_size" validate:"min=1"`
}

// CatalogConfig enables the SQLite symbol catalog. When Path is set, every
// run registers its symbols under Base and resolves dependency links through
// the catalog in addition to Links.Dependencies.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
	Base string `yaml:"base,omitempty"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// Load reads, expands and defaults the configuration at path. Relative paths
// in the file are resolved against the file's directory. Load does not
// validate; callers apply flag overrides and then call Validate.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by the CLI user.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes configuration bytes after ${VAR} expansion and applies
// defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration").Build()
	}
	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, errors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// resolvePaths makes relative file paths relative to base.
func (c *Config) resolvePaths(base string) {
	if base == "" || base == "." {
		return
	}
	for _, p := range []*string{
		&c.Input.Surface, &c.Input.Comments, &c.Input.Examples,
		&c.Output.Dir, &c.Catalog.Path, &c.Metrics.Textfile,
	} {
		*p = resolve(base, *p)
	}
	for i := range c.Links.Dependencies {
		c.Links.Dependencies[i].Path = resolve(base, c.Links.Dependencies[i].Path)
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
